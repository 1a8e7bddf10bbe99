package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/football-data-sensor/internal/config"
	"github.com/preston-bernstein/football-data-sensor/internal/entity"
	httpserver "github.com/preston-bernstein/football-data-sensor/internal/http"
	"github.com/preston-bernstein/football-data-sensor/internal/http/handlers"
	"github.com/preston-bernstein/football-data-sensor/internal/logging"
	"github.com/preston-bernstein/football-data-sensor/internal/metrics"
	"github.com/preston-bernstein/football-data-sensor/internal/poller"
	"github.com/preston-bernstein/football-data-sensor/internal/providers"
	"github.com/preston-bernstein/football-data-sensor/internal/sensor"
)

const metricsPath = "/metrics"

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	registry      *entity.Registry
	sensor        *sensor.FixtureSensor
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
}

// New constructs a server with the configured provider and poller wiring.
// It fails only when the sensor cannot be built, e.g. for an unknown timezone.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.FixtureProvider) (*Server, error) {
	return newServerWithMetrics(cfg, logger, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.FixtureProvider, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newProviderFactory(logger, recorder)
	if provider == nil {
		provider = factory.build(cfg)
	} else {
		provider = factory.wrap(cfg, provider)
	}

	s, err := sensor.New(sensor.Config{
		TeamID:      cfg.Sensor.TeamID,
		MaxFixtures: cfg.Sensor.MaxFixtures,
		Name:        cfg.Sensor.Name,
		Timezone:    cfg.Sensor.TimeZone,
	}, provider, sensor.WithMetrics(recorder))
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(context.Background())
		}
		return nil, fmt.Errorf("build sensor: %w", err)
	}

	registry := entity.NewRegistry()
	if err := registry.Register(s.EntityID(), s); err != nil {
		return nil, err
	}

	plr := poller.New(s, s.EntityID(), logger, recorder, cfg.Sensor.Interval())
	httpSrv := buildHTTPServer(cfg, registry, logger, recorder, plr)

	logging.Info(logger, "sensor configured",
		slog.String(logging.FieldEntityID, s.EntityID()),
		slog.String(logging.FieldTeamID, cfg.Sensor.TeamID),
		slog.String(logging.FieldProvider, cfg.Provider),
		slog.Int("max_fixtures", cfg.Sensor.MaxFixtures),
		slog.String("time_zone", s.Location().String()),
		slog.Duration("interval", cfg.Sensor.Interval()),
	)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		registry:      registry,
		sensor:        s,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		registry:   entity.NewRegistry(),
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, registry *entity.Registry, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	handler := handlers.NewHandler(registry, logger, statusFn)
	// The refresh endpoint is only mounted when a token is configured.
	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" && plr != nil {
		admin = handlers.NewAdminHandler(registry, map[string]handlers.Trigger{plr.EntityID(): plr}, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin, logger, recorder)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the metrics server, the HTTP server and the poller, then blocks
// until ctx is cancelled and shuts everything down in reverse order.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	if s.metricsServer != nil {
		logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
		launchServer("metrics", s.metricsServer, s.logger, nil)
	}

	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(error) {
		if stop != nil {
			stop()
		}
	})

	s.poller.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")
	s.gracefulShutdown()
}

type shutdownStep struct {
	name string
	fn   func(context.Context) error
}

func (s *Server) shutdownSteps() []shutdownStep {
	steps := []shutdownStep{
		{"poller", s.poller.Stop},
		{"http server", s.httpServer.Shutdown},
	}
	if s.metricsServer != nil {
		steps = append(steps, shutdownStep{"metrics server", s.metricsServer.Shutdown})
	}
	if s.metricsStop != nil {
		steps = append(steps, shutdownStep{"telemetry", s.metricsStop})
	}
	return steps
}

// gracefulShutdown runs every step under one shared deadline; a failing step
// does not prevent the next.
func (s *Server) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, step := range s.shutdownSteps() {
		if err := step.fn(ctx); err != nil {
			logging.Error(s.logger, step.name+" shutdown failed", err)
		}
	}
	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	rec, scrape, shutdown, err := metricsSetup(context.Background(), metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.Any(logging.FieldError, err))
		return metrics.NewRecorder(), nil, nil
	}
	if scrape == nil || !cfg.Metrics.Enabled {
		return rec, nil, shutdown
	}

	mux := chi.NewRouter()
	mux.Method(http.MethodGet, metricsPath, scrape)
	srv := &http.Server{
		Addr:              ":" + cfg.Metrics.Port,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return rec, netHTTPServer{srv: srv}, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		err := srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		logging.Warn(logger, name+" server failed", slog.Any(logging.FieldError, err))
		if onError != nil {
			onError(err)
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Sensor exposes the wired sensor (useful for tests).
func (s *Server) Sensor() *sensor.FixtureSensor {
	return s.sensor
}
