package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/football-data-sensor/internal/http/handlers"
	"github.com/preston-bernstein/football-data-sensor/internal/http/middleware"
	"github.com/preston-bernstein/football-data-sensor/internal/metrics"
)

// NewRouter registers HTTP routes on a chi router. The refresh endpoint is only
// mounted when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))
	r.Use(chimw.Recoverer)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	r.Route("/api/states", func(r chi.Router) {
		r.Get("/", handler.States)
		r.Get("/{"+handlers.ParamEntityID+"}", handler.State)
		if admin != nil {
			r.Post("/{"+handlers.ParamEntityID+"}/refresh", admin.Refresh)
		}
	})
	return r
}
