package api

import (
	"net/http"

	"github.com/boswecw/boswell/internal/portfolio"
	"github.com/samber/lo"
)

// ListRepositories handles GET /api/v1/repositories.
//
//	@Summary		Get portfolio repositories
//	@Description	Returns the repository loader state; repositories are ordered by last update, newest first
//	@Tags			portfolio
//	@Produce		json
//	@Success		200	{object}	RepositoriesResponse
//	@Router			/api/v1/repositories [get]
func (h *Handler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	s := h.portfolio.State()

	resp := RepositoriesResponse{
		Status:     s.Status.String(),
		Error:      s.Err,
		Generation: s.Generation,
		Repositories: lo.Map(s.Repositories, func(repo portfolio.Repository, _ int) RepositoryResponse {
			return RepositoryResponse{
				ID:          repo.ID,
				Name:        repo.Name,
				Description: repo.Description,
				URL:         repo.URL,
				HomepageURL: repo.HomepageURL,
				Language:    repo.Language,
				StarCount:   repo.StarCount,
				ForkCount:   repo.ForkCount,
				UpdatedAt:   repo.UpdatedAt,
				IsPrivate:   repo.IsPrivate,
			}
		}),
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = &s.UpdatedAt
	}

	h.writeJSON(w, http.StatusOK, resp)
}
