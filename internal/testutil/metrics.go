package testutil

import (
	"context"

	"github.com/preston-bernstein/football-data-sensor/internal/metrics"
)

// NewRecorderWithShutdown pairs an in-memory recorder with a shutdown that does nothing.
func NewRecorderWithShutdown() (*metrics.Recorder, func(context.Context) error) {
	noop := func(context.Context) error { return nil }
	return metrics.NewRecorder(), noop
}
