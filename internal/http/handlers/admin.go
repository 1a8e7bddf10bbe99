package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/football-data-sensor/internal/entity"
	"github.com/preston-bernstein/football-data-sensor/internal/http/requestutil"
	"github.com/preston-bernstein/football-data-sensor/internal/logging"
	"github.com/preston-bernstein/football-data-sensor/internal/providers"
)

// Trigger runs an on-demand refresh, serialised with scheduled ones.
type Trigger interface {
	Trigger(ctx context.Context) error
}

// AdminHandler exposes token-guarded endpoints.
type AdminHandler struct {
	registry *entity.Registry
	triggers map[string]Trigger
	token    string
	logger   *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. triggers maps entity ids to their poller.
func NewAdminHandler(registry *entity.Registry, triggers map[string]Trigger, token string, logger *slog.Logger) *AdminHandler {
	if registry == nil {
		registry = entity.NewRegistry()
	}
	return &AdminHandler{
		registry: registry,
		triggers: triggers,
		token:    token,
		logger:   logger,
	}
}

// Refresh forces an immediate refresh of one entity and returns its new state.
// Upstream failures surface as 502 and leave the entity untouched.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	id := chi.URLParam(r, ParamEntityID)
	trigger, ok := h.triggers[id]
	if !ok || trigger == nil {
		writeError(w, r, http.StatusNotFound, "entity not found", logger)
		return
	}

	if err := trigger.Trigger(r.Context()); err != nil {
		args := []any{slog.String(logging.FieldEntityID, id), slog.Any(logging.FieldError, err)}
		if upstream, ok := providers.AsUpstreamHTTPError(err); ok {
			args = append(args, slog.Int(logging.FieldStatusCode, upstream.StatusCode))
		}
		logging.Warn(logger, "admin refresh failed", args...)
		writeError(w, r, http.StatusBadGateway, err.Error(), logger)
		return
	}

	e, ok := h.registry.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "entity not found", logger)
		return
	}
	logging.Info(logger, "admin refresh complete", slog.String(logging.FieldEntityID, id))
	writeJSON(w, http.StatusOK, entity.View(id, e), logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
