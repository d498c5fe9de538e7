package handler

import (
	"net/http"

	"github.com/boswecw/boswell/internal/portfolio"
	"github.com/boswecw/boswell/internal/template"
)

// PortfolioData holds data for the portfolio page template.
type PortfolioData struct {
	Meta      template.Meta
	Portfolio portfolio.State
	Account   string
}

// Portfolio renders the current repository list state.
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, template.PagePortfolio, PortfolioData{
		Meta:      h.meta("/portfolio", "Portfolio", "Recent public projects, most recently updated first."),
		Portfolio: h.portfolio.State(),
		Account:   h.account,
	})
}

// ReloadPortfolio supersedes any outstanding load with a fresh one.
func (h *Handler) ReloadPortfolio(w http.ResponseWriter, r *http.Request) {
	h.portfolio.Reload(r.Context())
	h.redirect(w, r, "/portfolio")
}
