package handlers

import (
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/preston-bernstein/football-data-sensor/internal/http/middleware"
	"github.com/preston-bernstein/football-data-sensor/internal/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON marshals payload before touching the response, so an encoding
// failure becomes a 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error(logger, "encode response", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	id := middleware.RequestIDFromContext(r.Context())
	if id == "" {
		id = r.Header.Get(middleware.HeaderRequestID)
	}
	writeJSON(w, status, errorBody{Error: message, RequestID: id}, logger)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
