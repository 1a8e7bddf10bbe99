package metrics

import (
	"sync"
	"time"
)

// Snapshot is a copy of the counters recorded for one provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

type refreshStats struct {
	refreshes    int
	failures     int
	lastFixtures int
	succeeded    bool
}

// Recorder keeps in-process counters for provider calls and sensor refreshes.
// When built by Setup it also forwards every event to OpenTelemetry.
type Recorder struct {
	mu        sync.Mutex
	providers map[string]*Snapshot
	sensors   map[string]*refreshStats
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		providers: make(map[string]*Snapshot),
		sensors:   make(map[string]*refreshStats),
		otel:      otel,
	}
}

// RecordProviderAttempt counts one upstream call and keeps its latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.withProvider(provider, func(s *Snapshot) {
		s.Calls++
		s.LastCallLatency = duration
		if err != nil {
			s.Errors++
		}
	})
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit counts a quota rejection and keeps the advertised reset delay.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}
	r.withProvider(provider, func(s *Snapshot) {
		s.RateLimitHits++
		if retryAfter > 0 {
			s.LastRetryAfter = retryAfter
		}
	})
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

func (r *Recorder) ProviderCalls(provider string) int  { return r.Snapshot(provider).Calls }
func (r *Recorder) ProviderErrors(provider string) int { return r.Snapshot(provider).Errors }
func (r *Recorder) RateLimitHits(provider string) int  { return r.Snapshot(provider).RateLimitHits }

func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the counters for provider; unknown providers yield zeros.
func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.providers[provider]; ok {
		return *s
	}
	return Snapshot{}
}

// RecordHTTPRequest forwards a served request to OpenTelemetry. Nothing is kept in process.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle forwards one refresh cycle to OpenTelemetry.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// RecordSensorRefresh tracks one refresh of an entity. The fixture count is
// only kept when the refresh succeeded.
func (r *Recorder) RecordSensorRefresh(entityID string, fixtures int, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	s, ok := r.sensors[entityID]
	if !ok {
		s = &refreshStats{}
		r.sensors[entityID] = s
	}
	s.refreshes++
	if err != nil {
		s.failures++
	} else {
		s.lastFixtures = fixtures
		s.succeeded = true
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSensorRefresh(entityID, err)
	}
}

// SensorRefreshes returns refresh attempts and failures recorded for an entity.
func (r *Recorder) SensorRefreshes(entityID string) (refreshes, failures int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sensors[entityID]; ok {
		return s.refreshes, s.failures
	}
	return 0, 0
}

func (r *Recorder) LastFixtureCount(entityID string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sensors[entityID]; ok {
		return s.lastFixtures
	}
	return 0
}

// fixtureCounts lists entities that have refreshed successfully at least once.
func (r *Recorder) fixtureCounts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.sensors))
	for id, s := range r.sensors {
		if s.succeeded {
			out[id] = s.lastFixtures
		}
	}
	return out
}

func (r *Recorder) withProvider(provider string, fn func(*Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.providers[provider]
	if !ok {
		s = &Snapshot{}
		r.providers[provider] = s
	}
	fn(s)
}
