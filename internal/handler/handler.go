package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/boswecw/boswell/internal/catalog"
	"github.com/boswecw/boswell/internal/config"
	"github.com/boswecw/boswell/internal/contact"
	"github.com/boswecw/boswell/internal/portfolio"
	"github.com/boswecw/boswell/internal/template"
)

// TemplateRenderer renders named page templates.
type TemplateRenderer interface {
	Render(w io.Writer, name string, data any) error
}

// FormStore resolves the contact form of the requesting visitor.
type FormStore interface {
	FromRequest(w http.ResponseWriter, r *http.Request) (*contact.Form, error)
}

// PortfolioSource exposes the repository list loader.
type PortfolioSource interface {
	State() portfolio.State
	Reload(ctx context.Context)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	catalog      *catalog.Catalog
	forms        FormStore
	portfolio    PortfolioSource
	tmpl         TemplateRenderer
	siteURL      string
	account      string
	contactEmail string
	now          func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithSiteURL sets the canonical URL used in page metadata.
func WithSiteURL(u string) Option {
	return func(h *Handler) {
		h.siteURL = u
	}
}

// WithAccount sets the account named on the portfolio page.
func WithAccount(account string) Option {
	return func(h *Handler) {
		h.account = account
	}
}

// WithContactEmail sets the address offered as a fallback channel.
func WithContactEmail(email string) Option {
	return func(h *Handler) {
		h.contactEmail = email
	}
}

// WithClock sets the time source used to expire status notices.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// New creates a new Handler with the given dependencies.
func New(c *catalog.Catalog, forms FormStore, repos PortfolioSource, tmpl TemplateRenderer, opts ...Option) (*Handler, error) {
	if c == nil {
		return nil, errors.New("package catalog is required")
	}
	if forms == nil {
		return nil, errors.New("form store is required")
	}
	if repos == nil {
		return nil, errors.New("portfolio source is required")
	}
	if tmpl == nil {
		return nil, errors.New("templates are required")
	}

	h := &Handler{
		catalog:      c,
		forms:        forms,
		portfolio:    repos,
		tmpl:         tmpl,
		siteURL:      config.DefaultSiteURL,
		account:      config.DefaultGitHubAccount,
		contactEmail: config.ContactEmail,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// RegisterRoutes registers all HTTP routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// "/" also catches unknown paths, which render the landing page
	mux.HandleFunc("GET /", h.Home)
	mux.HandleFunc("GET /contact", h.Contact)
	mux.HandleFunc("POST /contact", h.SubmitContact)
	mux.HandleFunc("POST /contact/package", h.SelectPackage)
	mux.HandleFunc("POST /contact/reset", h.ResetContact)
	mux.HandleFunc("GET /portfolio", h.Portfolio)
	mux.HandleFunc("POST /portfolio/reload", h.ReloadPortfolio)
}

// ErrorData holds data for the error page template.
type ErrorData struct {
	Meta         template.Meta
	Status       int
	Message      string
	ContactEmail string
}

// ErrorPage answers with the generic 500 page. It is the fallback for
// recovered panics.
func (h *Handler) ErrorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusInternalServerError, template.PageError, ErrorData{
		Meta:         h.meta(r.URL.Path, "Something went wrong", ""),
		Status:       http.StatusInternalServerError,
		ContactEmail: h.contactEmail,
	})
}

func (h *Handler) meta(path, title, description string) template.Meta {
	return template.NewMeta(h.siteURL, path, title, description)
}

// render buffers the page so a template failure can still become a 500.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.Render(&buf, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write response", "template", name, "error", err)
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
