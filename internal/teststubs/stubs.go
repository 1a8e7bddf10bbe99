package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
)

// StubProvider is a test double for providers.FixtureProvider.
type StubProvider struct {
	Matches []fixtures.Match
	Err     error
	Calls   atomic.Int32
	Notify  chan struct{}

	mu        sync.Mutex
	lastTeam  string
	lastLimit int
}

// FetchScheduledMatches returns configured matches and error while tracking calls.
func (s *StubProvider) FetchScheduledMatches(ctx context.Context, teamID string, limit int) ([]fixtures.Match, error) {
	_ = ctx
	s.mu.Lock()
	s.lastTeam = teamID
	s.lastLimit = limit
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.mu.Unlock()
	s.Calls.Add(1)
	return s.Matches, s.Err
}

// LastRequest returns the team id and limit of the most recent call.
func (s *StubProvider) LastRequest() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTeam, s.lastLimit
}

// StubRefresher is a test double for poller.Refresher.
type StubRefresher struct {
	ID     string
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}

	// Block, when set, holds each refresh until it is closed or ctx ends.
	Block    chan struct{}
	inFlight atomic.Int32
	// MaxInFlight records the highest number of overlapping refreshes observed.
	MaxInFlight atomic.Int32

	notifyOnce sync.Once
}

// EntityID returns the configured id.
func (s *StubRefresher) EntityID() string {
	return s.ID
}

// Refresh counts the call and returns the configured error.
func (s *StubRefresher) Refresh(ctx context.Context) error {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.MaxInFlight.Load()
		if n <= peak || s.MaxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	s.Calls.Add(1)
	if s.Notify != nil {
		s.notifyOnce.Do(func() { close(s.Notify) })
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.Err
}
