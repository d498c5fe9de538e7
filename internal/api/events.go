package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/boswecw/boswell/internal/analytics"
)

// RecordEvent handles POST /api/v1/events.
//
//	@Summary		Record an analytics event
//	@Description	Forwards a client-side interaction event to the analytics recorder
//	@Tags			analytics
//	@Accept			json
//	@Produce		json
//	@Param			event	body	EventRequest	true	"Event"
//	@Success		202
//	@Failure		400	{object}	ErrorResponse
//	@Router			/api/v1/events [post]
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBytes)

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid event body")
		return
	}

	if !analytics.IsKnown(req.Name) {
		slog.Debug("api: rejected unknown analytics event", "name", req.Name)
		h.writeError(w, http.StatusBadRequest, "unknown event name")
		return
	}

	h.recorder.RecordEvent(req.Name, req.Attrs)
	w.WriteHeader(http.StatusAccepted)
}
