package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	defaultServiceName = "football-data-sensor"
	otlpExportInterval = 15 * time.Second
)

// Instrument names. The Prometheus exporter rewrites dots and appends unit suffixes.
const (
	instHTTPRequests      = "http.server.requests"
	instHTTPDuration      = "http.server.request.duration"
	instProviderRequests  = "provider.requests"
	instProviderErrors    = "provider.errors"
	instProviderDuration  = "provider.request.duration"
	instProviderThrottled = "provider.throttled"
	instProviderResetIn   = "provider.throttle.reset"
	instPollerCycles      = "poller.cycles"
	instPollerErrors      = "poller.errors"
	instPollerDuration    = "poller.cycle.duration"
	instSensorRefreshes   = "sensor.refreshes"
	instSensorFailures    = "sensor.refresh.failures"
	instSensorFixtures    = "sensor.fixtures.upcoming"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and an
// optional OTLP/HTTP exporter. It returns a Recorder, the Prometheus scrape
// handler and a shutdown function that flushes pending exports.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	provider, scrape, err := newMeterProvider(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	inst, err := instrumentFactory(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, nil, err
	}
	rec := newRecorder(inst)
	if err := inst.observeFixtures(rec); err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, nil, err
	}

	return rec, scrape, provider.Shutdown, nil
}

func newMeterProvider(ctx context.Context, cfg TelemetryConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	promReader, scrape, err := promReaderFactory()
	if err != nil {
		return nil, nil, err
	}
	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, sdkmetric.WithResource(res))

	return sdkmetric.NewMeterProvider(opts...), scrape, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(otlpExportInterval)), nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	exp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return exp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), nil
}

type otelInstruments struct {
	meter metric.Meter

	httpRequests metric.Int64Counter
	httpDuration metric.Float64Histogram

	providerRequests  metric.Int64Counter
	providerErrors    metric.Int64Counter
	providerDuration  metric.Float64Histogram
	providerThrottled metric.Int64Counter
	providerResetIn   metric.Float64Histogram

	pollerCycles   metric.Int64Counter
	pollerErrors   metric.Int64Counter
	pollerDuration metric.Float64Histogram

	sensorRefreshes metric.Int64Counter
	sensorFailures  metric.Int64Counter
	sensorFixtures  metric.Int64ObservableGauge
}

// instrumentBuilder keeps the first creation error so construction reads linearly.
type instrumentBuilder struct {
	meter metric.Meter
	errs  []error
}

func (b *instrumentBuilder) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{call}"))
	b.errs = append(b.errs, err)
	return c
}

func (b *instrumentBuilder) seconds(name, desc string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	b.errs = append(b.errs, err)
	return h
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	b := &instrumentBuilder{meter: provider.Meter(defaultServiceName)}

	inst := &otelInstruments{
		meter:             b.meter,
		httpRequests:      b.counter(instHTTPRequests, "HTTP requests served by the state API."),
		httpDuration:      b.seconds(instHTTPDuration, "State API request latency."),
		providerRequests:  b.counter(instProviderRequests, "Upstream fixture requests."),
		providerErrors:    b.counter(instProviderErrors, "Upstream fixture requests that failed."),
		providerDuration:  b.seconds(instProviderDuration, "Upstream fixture request latency."),
		providerThrottled: b.counter(instProviderThrottled, "Upstream responses rejected for quota."),
		providerResetIn:   b.seconds(instProviderResetIn, "Seconds until the upstream quota resets."),
		pollerCycles:      b.counter(instPollerCycles, "Scheduled or triggered refresh cycles."),
		pollerErrors:      b.counter(instPollerErrors, "Refresh cycles that returned an error."),
		pollerDuration:    b.seconds(instPollerDuration, "Refresh cycle latency."),
		sensorRefreshes:   b.counter(instSensorRefreshes, "Sensor refresh attempts."),
		sensorFailures:    b.counter(instSensorFailures, "Sensor refreshes that left the state untouched."),
	}

	gauge, err := b.meter.Int64ObservableGauge(instSensorFixtures,
		metric.WithDescription("Fixtures currently exposed by each sensor."),
		metric.WithUnit("{fixture}"),
	)
	b.errs = append(b.errs, err)
	inst.sensorFixtures = gauge

	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return inst, nil
}

// observeFixtures reports each sensor's last successful fixture count at collection time.
func (o *otelInstruments) observeFixtures(rec *Recorder) error {
	if o == nil || rec == nil {
		return nil
	}
	_, err := o.meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		for id, count := range rec.fixtureCounts() {
			obs.ObserveInt64(o.sensorFixtures, int64(count), metric.WithAttributes(attribute.String(AttrEntity, id)))
		}
		return nil
	}, o.sensorFixtures)
	return err
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	)
	ctx := context.Background()
	o.httpRequests.Add(ctx, 1, attrs)
	o.httpDuration.Record(ctx, duration.Seconds(), attrs)
}

func (o *otelInstruments) recordProviderAttempt(provider string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String(AttrProvider, provider))
	ctx := context.Background()
	o.providerRequests.Add(ctx, 1, attrs)
	o.providerDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		o.providerErrors.Add(ctx, 1, attrs)
	}
}

func (o *otelInstruments) recordRateLimit(provider string, resetIn time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrProvider, provider))
	ctx := context.Background()
	o.providerThrottled.Add(ctx, 1, attrs)
	if resetIn > 0 {
		o.providerResetIn.Record(ctx, resetIn.Seconds(), attrs)
	}
}

func (o *otelInstruments) recordPoller(duration time.Duration, err error) {
	ctx := context.Background()
	o.pollerCycles.Add(ctx, 1)
	o.pollerDuration.Record(ctx, duration.Seconds())
	if err != nil {
		o.pollerErrors.Add(ctx, 1)
	}
}

func (o *otelInstruments) recordSensorRefresh(entityID string, err error) {
	attrs := metric.WithAttributes(attribute.String(AttrEntity, entityID))
	ctx := context.Background()
	o.sensorRefreshes.Add(ctx, 1, attrs)
	if err != nil {
		o.sensorFailures.Add(ctx, 1, attrs)
	}
}
