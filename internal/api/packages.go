package api

import (
	"net/http"

	"github.com/boswecw/boswell/internal/catalog"
	"github.com/samber/lo"
)

// ListPackages handles GET /api/v1/packages.
//
//	@Summary		List pricing packages
//	@Description	Returns the pricing packages in display order with the preselected default
//	@Tags			packages
//	@Produce		json
//	@Success		200	{object}	PackagesResponse
//	@Router			/api/v1/packages [get]
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, PackagesResponse{
		DefaultID: h.catalog.DefaultID(),
		Packages: lo.Map(h.catalog.Packages(), func(p catalog.Package, _ int) PackageResponse {
			return PackageResponse{
				ID:          p.ID,
				Name:        p.Name,
				Price:       p.Price,
				Timeline:    p.Timeline,
				Description: p.Description,
				Pages:       p.Pages,
				Revisions:   p.Revisions,
				Popular:     p.Popular,
				ProjectType: p.ProjectType,
				Features:    p.Features,
			}
		}),
	})
}
