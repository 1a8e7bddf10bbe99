// Package sensor implements the football-data fixture sensor: a pollable entity
// that turns a team's scheduled matches into state and attributes.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
	"github.com/preston-bernstein/football-data-sensor/internal/entity"
	"github.com/preston-bernstein/football-data-sensor/internal/metrics"
	"github.com/preston-bernstein/football-data-sensor/internal/providers"
	"github.com/preston-bernstein/football-data-sensor/internal/timeutil"
)

const (
	// DefaultMaxFixtures caps the fixture list when no limit is configured.
	DefaultMaxFixtures = 5
	// DefaultName is the display name used when none is configured.
	DefaultName = "football_data"
	// StatusOnline is the only state value the sensor ever reports.
	StatusOnline = "online"
	// Domain is the platform the sensor registers under.
	Domain = "sensor"

	AttrFixtures    = "fixtures"
	AttrLastUpdated = "last_updated"
)

// Config is the immutable configuration bundle for one sensor. The API key
// travels with the provider that signs upstream requests.
type Config struct {
	TeamID      string
	MaxFixtures int
	Name        string
	Timezone    string
}

// snapshot is everything one successful refresh produces. It is never mutated once published.
type snapshot struct {
	status      string
	fixtures    []fixtures.Record
	refreshedAt time.Time
}

// FixtureSensor polls a FixtureProvider and exposes upcoming matches.
type FixtureSensor struct {
	name        string
	teamID      string
	maxFixtures int
	loc         *time.Location
	provider    providers.FixtureProvider
	metrics     *metrics.Recorder
	now         func() time.Time

	current atomic.Pointer[snapshot]
}

// Option customises a FixtureSensor.
type Option func(*FixtureSensor)

// WithClock overrides the sensor's time source.
func WithClock(now func() time.Time) Option {
	return func(s *FixtureSensor) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics records every refresh outcome on the recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *FixtureSensor) {
		s.metrics = recorder
	}
}

// New builds a sensor. It resolves the timezone but performs no network activity.
func New(cfg Config, provider providers.FixtureProvider, opts ...Option) (*FixtureSensor, error) {
	loc, err := providers.ResolveTimezone(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	if cfg.MaxFixtures <= 0 {
		cfg.MaxFixtures = DefaultMaxFixtures
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}

	s := &FixtureSensor{
		name:        cfg.Name,
		teamID:      cfg.TeamID,
		maxFixtures: cfg.MaxFixtures,
		loc:         loc,
		provider:    provider,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the configured display name.
func (s *FixtureSensor) Name() string {
	return s.name
}

// EntityID returns the host entity id, e.g. "sensor.football_data".
func (s *FixtureSensor) EntityID() string {
	return entity.ID(Domain, s.name)
}

// State returns the current status; ok is false until the first successful refresh.
func (s *FixtureSensor) State() (string, bool) {
	snap := s.current.Load()
	if snap == nil {
		return "", false
	}
	return snap.status, true
}

// Fixtures returns a copy of the current fixture list.
func (s *FixtureSensor) Fixtures() []fixtures.Record {
	snap := s.current.Load()
	if snap == nil {
		return []fixtures.Record{}
	}
	out := make([]fixtures.Record, len(snap.fixtures))
	copy(out, snap.fixtures)
	return out
}

// RefreshedAt returns when the last successful refresh completed, or the zero time.
func (s *FixtureSensor) RefreshedAt() time.Time {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}
	}
	return snap.refreshedAt
}

// Attributes returns the fixture list and a last_updated stamp taken at read time.
func (s *FixtureSensor) Attributes() map[string]any {
	return map[string]any{
		AttrFixtures:    s.Fixtures(),
		AttrLastUpdated: s.now().In(s.loc),
	}
}

// Location returns the timezone fixtures are rendered in.
func (s *FixtureSensor) Location() *time.Location {
	return s.loc
}

// Refresh fetches scheduled matches and publishes a new snapshot. On error the
// previous snapshot stays in place.
func (s *FixtureSensor) Refresh(ctx context.Context) error {
	if s.provider == nil {
		s.metrics.RecordSensorRefresh(s.EntityID(), 0, providers.ErrProviderUnavailable)
		return providers.ErrProviderUnavailable
	}

	matches, err := s.provider.FetchScheduledMatches(ctx, s.teamID, s.maxFixtures)
	if err != nil {
		s.metrics.RecordSensorRefresh(s.EntityID(), 0, err)
		return fmt.Errorf("refresh %s: %w", s.name, err)
	}
	if len(matches) > s.maxFixtures {
		matches = matches[:s.maxFixtures]
	}

	records := make([]fixtures.Record, 0, len(matches))
	for _, m := range matches {
		records = append(records, s.toRecord(m))
	}

	s.current.Store(&snapshot{
		status:      StatusOnline,
		fixtures:    records,
		refreshedAt: s.now().In(s.loc),
	})
	s.metrics.RecordSensorRefresh(s.EntityID(), len(records), nil)
	return nil
}

func (s *FixtureSensor) toRecord(m fixtures.Match) fixtures.Record {
	kickoff := m.UTCDate.In(s.loc)
	return fixtures.Record{
		Date:          kickoff,
		DateFormatted: timeutil.FormatMatchDate(kickoff),
		Kickoff:       timeutil.FormatKickoff(kickoff),
		HomeTeam:      m.HomeTeam.ShortName,
		AwayTeam:      m.AwayTeam.ShortName,
		HomeTeamLogo:  m.HomeTeam.Crest,
		AwayTeamLogo:  m.AwayTeam.Crest,
		Competition:   m.Competition,
	}
}

// IsUpstreamFailure reports whether err came from a non-success upstream response.
func IsUpstreamFailure(err error) bool {
	_, ok := providers.AsUpstreamHTTPError(err)
	return ok
}

// IsMalformedResponse reports whether err came from an unparseable upstream body.
func IsMalformedResponse(err error) bool {
	_, ok := providers.AsMalformedResponseError(err)
	return ok
}

// IsTimezoneError reports whether err came from an unknown timezone identifier.
func IsTimezoneError(err error) bool {
	var tzErr *providers.TimezoneResolutionError
	return errors.As(err, &tzErr)
}
