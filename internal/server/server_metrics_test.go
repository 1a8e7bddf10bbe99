package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/preston-bernstein/football-data-sensor/internal/config"
	"github.com/preston-bernstein/football-data-sensor/internal/metrics"
	"github.com/preston-bernstein/football-data-sensor/internal/teststubs"
	"github.com/preston-bernstein/football-data-sensor/internal/testutil"
)

func TestNewServerWithMetricsHandlesSetupFailure(t *testing.T) {
	origSetup := metricsSetup
	defer func() { metricsSetup = origSetup }()

	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("fail")
	}

	cfg := baseConfig()
	cfg.Metrics.Enabled = true

	srv, err := newServerWithMetrics(cfg, nil, &teststubs.StubProvider{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics == nil {
		t.Fatalf("expected fallback metrics recorder even on setup failure")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics server on setup failure")
	}
}

func TestNewServerWithMetricsDisabledSkipsServer(t *testing.T) {
	srv, err := newServerWithMetrics(baseConfig(), nil, &teststubs.StubProvider{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics == nil {
		t.Fatalf("expected recorder to be set even when metrics disabled")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics server when disabled")
	}
}

func TestNewServerWithMetricsUsesInjectedRecorder(t *testing.T) {
	rec, shutdown := testutil.NewRecorderWithShutdown()
	defer func() { _ = shutdown(context.Background()) }()

	cfg := baseConfig()
	cfg.Metrics.Enabled = true

	srv, err := newServerWithMetrics(cfg, nil, &teststubs.StubProvider{}, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics != rec {
		t.Fatalf("expected injected recorder to be used")
	}
	if srv.metricsStop != nil {
		t.Fatalf("expected no owned shutdown for injected recorder")
	}
}

func TestBuildMetricsSuccessPathSetsServerAndShutdown(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		scrape := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("scraped")) })
		return metrics.NewRecorder(), scrape, func(context.Context) error { return nil }, nil
	}

	rec, srv, stop := buildMetrics(config.Config{
		Metrics: config.MetricsConfig{
			Enabled: true,
			Port:    "9999",
		},
	}, nil, nil)

	if rec == nil || srv == nil || stop == nil {
		t.Fatalf("expected recorder, server, and shutdown to be set on success")
	}
	if srv.Addr() != ":9999" {
		t.Fatalf("unexpected metrics addr %s", srv.Addr())
	}

	rr := testutil.Serve(srv.Handler(), http.MethodGet, metricsPath, nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Body.String() != "scraped" {
		t.Fatalf("expected scrape handler on %s, got %q", metricsPath, rr.Body.String())
	}
	testutil.AssertStatus(t, testutil.Serve(srv.Handler(), http.MethodGet, "/elsewhere", nil), http.StatusNotFound)
}

func TestNewReleasesMetricsOnSensorError(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	released := false
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error {
			released = true
			return nil
		}, nil
	}

	cfg := baseConfig()
	cfg.Metrics.Enabled = true
	cfg.Sensor.TimeZone = "Nowhere/Land"
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error")
	}
	if !released {
		t.Fatal("expected telemetry shutdown on construction failure")
	}
}
