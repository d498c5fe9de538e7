package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/boswecw/boswell/internal/analytics"
	"github.com/boswecw/boswell/internal/catalog"
)

// maxEventBytes caps the body of a posted analytics event.
const maxEventBytes = 4 << 10

// Handler holds dependencies for API handlers.
type Handler struct {
	catalog    *catalog.Catalog
	portfolio  portfolioReader
	recorder   analytics.Recorder
	bufferPool *sync.Pool // Pool of bytes.Buffer for JSON encoding
}

// New creates a new API Handler.
// recorder can be nil, in which case events are accepted and discarded.
func New(c *catalog.Catalog, repos portfolioReader, recorder analytics.Recorder) (*Handler, error) {
	if c == nil {
		return nil, errors.New("package catalog is required")
	}
	if repos == nil {
		return nil, errors.New("portfolio source is required")
	}
	if recorder == nil {
		recorder = analytics.Nop{}
	}
	return &Handler{
		catalog:   c,
		portfolio: repos,
		recorder:  recorder,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}, nil
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/packages", h.ListPackages)
	mux.HandleFunc("GET /api/v1/repositories", h.ListRepositories)
	mux.HandleFunc("POST /api/v1/events", h.RecordEvent)
	mux.HandleFunc("GET /healthz", h.Health)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	buf := h.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		h.bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal server error","code":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  status,
	})
}
