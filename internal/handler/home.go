package handler

import (
	"net/http"

	"github.com/boswecw/boswell/internal/catalog"
	"github.com/boswecw/boswell/internal/portfolio"
	"github.com/boswecw/boswell/internal/template"
)

// featuredCount is how many recent repositories the landing page shows.
const featuredCount = 3

// HomeData holds data for the home page template.
type HomeData struct {
	Meta     template.Meta
	Packages []catalog.Package
	Featured []portfolio.Repository
}

// Home renders the landing page with the packages and the most recently
// updated projects, when the portfolio has loaded.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	data := HomeData{
		Meta:     h.meta("/", "", ""),
		Packages: h.catalog.Packages(),
	}

	if s := h.portfolio.State(); s.Status == portfolio.Loaded {
		data.Featured = s.Repositories[:min(featuredCount, len(s.Repositories))]
	}

	h.render(w, http.StatusOK, template.PageHome, data)
}
