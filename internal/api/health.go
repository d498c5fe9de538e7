package api

import "net/http"

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Portfolio: h.portfolio.State().Status.String(),
	})
}
