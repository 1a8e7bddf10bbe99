package testutil

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/preston-bernstein/football-data-sensor/internal/poller"
)

// StubPoller records lifecycle calls and returns canned errors.
type StubPoller struct {
	ID         string
	Err        error
	TriggerErr error
	StatusVal  poller.Status

	StartCalls   atomic.Int32
	StopCalls    atomic.Int32
	TriggerCalls atomic.Int32
}

func (p *StubPoller) Start(context.Context) { p.StartCalls.Add(1) }

func (p *StubPoller) Stop(context.Context) error {
	p.StopCalls.Add(1)
	return p.Err
}

func (p *StubPoller) Trigger(context.Context) error {
	p.TriggerCalls.Add(1)
	return p.TriggerErr
}

func (p *StubPoller) Status() poller.Status { return p.StatusVal }
func (p *StubPoller) EntityID() string      { return p.ID }

// FakeHTTPServer stands in for a listening server.
//
// ListenAndServe returns ListenErr immediately, or http.ErrServerClosed when
// ListenErr is nil. Shutdown waits on Block when it is set, giving up with ctx.
type FakeHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error
	Block       chan struct{}

	ListenCalls   atomic.Int32
	ShutdownCalls atomic.Int32
}

func (s *FakeHTTPServer) ListenAndServe() error {
	s.ListenCalls.Add(1)
	if s.ListenErr != nil {
		return s.ListenErr
	}
	return http.ErrServerClosed
}

func (s *FakeHTTPServer) Shutdown(ctx context.Context) error {
	s.ShutdownCalls.Add(1)
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.ShutdownErr
}

func (s *FakeHTTPServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *FakeHTTPServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NotFoundHandler()
	}
	return s.HandlerVal
}
