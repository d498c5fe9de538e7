package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/boswecw/boswell/internal/catalog"
	"github.com/boswecw/boswell/internal/contact"
	"github.com/boswecw/boswell/internal/middleware"
	"github.com/boswecw/boswell/internal/template"
)

const (
	contactPath   = "/contact"
	contactAnchor = "/contact#contact-form"

	// honeypotField is hidden from people; bots fill it in.
	honeypotField = "bot-field"
	packageField  = "package"
)

// ContactData holds data for the contact page template.
type ContactData struct {
	Meta         template.Meta
	Packages     []catalog.Package
	Form         contact.State
	Selected     catalog.Package
	Submitting   bool
	Invalid      map[string]bool
	ContactEmail string
}

// Contact renders the pricing packages and the visitor's form.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	form, ok := h.visitorForm(w, r)
	if !ok {
		return
	}

	form.ExpireStatus(h.now())
	h.renderContact(w, http.StatusOK, form.Snapshot())
}

// SelectPackage handles POST /contact/package.
func (h *Handler) SelectPackage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	// unknown ids never reach the session store
	id := r.PostForm.Get(packageField)
	if !h.catalog.Contains(id) {
		http.Error(w, "Unknown package", http.StatusBadRequest)
		return
	}

	form, ok := h.visitorForm(w, r)
	if !ok {
		return
	}

	if !h.selectPackage(w, form, id) {
		return
	}
	h.redirect(w, r, contactAnchor)
}

// ResetContact handles POST /contact/reset: it clears the visitor's form
// back to the default package.
func (h *Handler) ResetContact(w http.ResponseWriter, r *http.Request) {
	form, ok := h.visitorForm(w, r)
	if !ok {
		return
	}

	if err := form.Reset(); err != nil {
		if errors.Is(err, contact.ErrSubmissionInFlight) {
			h.renderContact(w, http.StatusConflict, form.Snapshot())
			return
		}
		slog.Error("failed to reset contact form", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.redirect(w, r, contactAnchor)
}

// SubmitContact handles POST /contact: it applies the posted fields and
// submits the visitor's form.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	form, ok := h.visitorForm(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if r.PostForm.Get(honeypotField) != "" {
		slog.Info("dropped contact submission with honeypot filled", "ip", middleware.ExtractIP(r))
		h.redirect(w, r, contactAnchor)
		return
	}

	if id := r.PostForm.Get(packageField); id != "" && id != form.Snapshot().SelectedPackageID {
		if !h.selectPackage(w, form, id) {
			return
		}
	}

	current := form.Snapshot().Fields
	for _, name := range contact.FieldNames {
		values, posted := r.PostForm[name]
		if !posted || len(values) == 0 {
			continue
		}
		if v, ok := current.Get(name); ok && v == values[0] {
			continue
		}
		if err := form.UpdateField(name, values[0]); err != nil {
			slog.Warn("failed to update contact field", "field", name, "error", err)
		}
	}

	err := form.Submit(r.Context())

	var verr *contact.ValidationError
	switch {
	case err == nil:
		h.redirect(w, r, contactAnchor)
	case errors.As(err, &verr):
		h.renderContact(w, http.StatusUnprocessableEntity, form.Snapshot())
	case errors.Is(err, contact.ErrSubmissionInFlight):
		h.renderContact(w, http.StatusConflict, form.Snapshot())
	default:
		// delivery failures are already on the form as an Error notice
		h.redirect(w, r, contactAnchor)
	}
}

func (h *Handler) selectPackage(w http.ResponseWriter, form *contact.Form, id string) bool {
	err := form.SelectPackage(id)
	switch {
	case err == nil:
		return true
	case errors.Is(err, contact.ErrUnknownPackage):
		http.Error(w, "Unknown package", http.StatusBadRequest)
	case errors.Is(err, contact.ErrSubmissionInFlight):
		h.renderContact(w, http.StatusConflict, form.Snapshot())
	default:
		slog.Error("failed to select package", "package_id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
	return false
}

func (h *Handler) visitorForm(w http.ResponseWriter, r *http.Request) (*contact.Form, bool) {
	form, err := h.forms.FromRequest(w, r)
	if err != nil {
		slog.Error("failed to resolve visitor form", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return form, true
}

func (h *Handler) renderContact(w http.ResponseWriter, status int, state contact.State) {
	selected, ok := h.catalog.Find(state.SelectedPackageID)
	if !ok {
		selected = h.catalog.Default()
	}

	invalid := map[string]bool{}
	if v := state.Validation; v != nil {
		for _, name := range contact.FieldNames {
			if v.Has(name) {
				invalid[name] = true
			}
		}
	}

	h.render(w, status, template.PageContact, ContactData{
		Meta:         h.meta(contactPath, "Pricing & Contact", "Website packages from $900. Tell me about your project and get a reply within 24 hours."),
		Packages:     h.catalog.Packages(),
		Form:         state,
		Selected:     selected,
		Submitting:   state.Submission.Kind == contact.Submitting,
		Invalid:      invalid,
		ContactEmail: h.contactEmail,
	})
}
