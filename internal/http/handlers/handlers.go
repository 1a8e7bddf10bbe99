package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/football-data-sensor/internal/entity"
	"github.com/preston-bernstein/football-data-sensor/internal/logging"
	"github.com/preston-bernstein/football-data-sensor/internal/poller"
)

// ParamEntityID is the chi URL parameter carrying an entity id.
const ParamEntityID = "entityID"

// Handler serves health probes and entity state reads.
type Handler struct {
	registry *entity.Registry
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil.
func NewHandler(registry *entity.Registry, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	if registry == nil {
		registry = entity.NewRegistry()
	}
	return &Handler{
		registry: registry,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the poller has produced data recently.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// States lists every registered entity.
func (h *Handler) States(w http.ResponseWriter, r *http.Request) {
	views := h.registry.Views()
	logging.Info(loggerFromContext(r, h.logger), "served states", slog.Int(logging.FieldCount, len(views)))
	writeJSON(w, http.StatusOK, views, h.logger)
}

// State returns a single entity's state and attributes.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, ParamEntityID)
	e, ok := h.registry.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "entity not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, entity.View(id, e), h.logger)
}

// NotFound renders unknown routes as JSON.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed renders method mismatches as JSON.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
}
