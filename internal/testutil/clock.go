package testutil

import (
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/timeutil"
)

// NowAt returns a clock function fixed at the provided time.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// MustParseUTC parses an upstream "2006-01-02T15:04:05Z" kickoff or panics; intended for tests.
func MustParseUTC(v string) time.Time {
	t, err := timeutil.ParseUpstream(v)
	if err != nil {
		panic(err)
	}
	return t
}
