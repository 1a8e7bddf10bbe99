package handlers

import (
	"context"
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/entity"
)

type stubEntity struct {
	name        string
	state       string
	attrs       map[string]any
	refreshedAt time.Time
}

func (s *stubEntity) Name() string { return s.name }

func (s *stubEntity) State() (string, bool) { return s.state, s.state != "" }

func (s *stubEntity) Attributes() map[string]any { return s.attrs }

func (s *stubEntity) Refresh(context.Context) error { return nil }

func (s *stubEntity) RefreshedAt() time.Time { return s.refreshedAt }

type stubTrigger struct {
	calls int
	err   error
	onRun func()
}

func (s *stubTrigger) Trigger(context.Context) error {
	s.calls++
	if s.err == nil && s.onRun != nil {
		s.onRun()
	}
	return s.err
}

func newRegistry(t interface{ Fatalf(string, ...any) }, entities map[string]entity.Entity) *entity.Registry {
	reg := entity.NewRegistry()
	for id, e := range entities {
		if err := reg.Register(id, e); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	return reg
}
