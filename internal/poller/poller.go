package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/logging"
	"github.com/preston-bernstein/football-data-sensor/internal/metrics"
)

const (
	defaultInterval = 360 * time.Second
	readyFailures   = 3
)

// Refresher is the capability the poller drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Poller invokes a Refresher on a fixed cadence. Refreshes never overlap, and
// failures are logged and counted but never retried.
type Poller struct {
	target   Refresher
	entityID string
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	// cycle serializes scheduled and triggered refreshes.
	cycle sync.Mutex

	lifecycle sync.Mutex
	started   bool
	stopped   bool
	done      chan struct{}
	exited    chan struct{}

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady is true once a refresh has succeeded and fewer than three have failed since.
func (s Status) IsReady() bool {
	return !s.LastSuccess.IsZero() && s.ConsecutiveFailures < readyFailures
}

// New builds a Poller for the entity. A non-positive interval falls back to six minutes.
func New(target Refresher, entityID string, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger != nil {
		logger = logger.With(slog.String(logging.FieldEntityID, entityID))
	}
	return &Poller{
		target:   target,
		entityID: entityID,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Start refreshes once immediately, then on every interval until ctx is
// cancelled or Stop is called. Calls after the first are no-ops.
func (p *Poller) Start(ctx context.Context) {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.exited)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logging.Info(p.logger, "poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
	defer logging.Info(p.logger, "poller stopped")

	_ = p.refreshOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-ticker.C:
			_ = p.refreshOnce(ctx)
		}
	}
}

// Stop ends the loop and waits for an in-flight refresh to drain, bounded by ctx.
func (p *Poller) Stop(ctx context.Context) error {
	p.lifecycle.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.done)
	}
	started := p.started
	p.lifecycle.Unlock()

	if !started {
		return nil
	}
	select {
	case <-p.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger runs one refresh now, after any in-flight cycle finishes.
func (p *Poller) Trigger(ctx context.Context) error {
	return p.refreshOnce(ctx)
}

func (p *Poller) refreshOnce(ctx context.Context) error {
	p.cycle.Lock()
	defer p.cycle.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := p.now()
	err := p.target.Refresh(ctx)
	elapsed := p.now().Sub(start)

	p.metrics.RecordPollerCycle(elapsed, err)
	p.settle(start, err)

	took := slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds())
	if err != nil {
		logging.Error(p.logger, "poller refresh failed", err, took)
		return err
	}
	logging.Info(p.logger, "poller refreshed entity", took)
	return nil
}

func (p *Poller) settle(at time.Time, err error) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()

	p.status.LastAttempt = at
	if err != nil {
		p.status.ConsecutiveFailures++
		p.status.LastError = err.Error()
		return
	}
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

func (p *Poller) EntityID() string {
	return p.entityID
}
