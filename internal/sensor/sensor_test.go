package sensor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
	"github.com/preston-bernstein/football-data-sensor/internal/entity"
	"github.com/preston-bernstein/football-data-sensor/internal/metrics"
	"github.com/preston-bernstein/football-data-sensor/internal/providers"
	"github.com/preston-bernstein/football-data-sensor/internal/providers/footballdata"
	"github.com/preston-bernstein/football-data-sensor/internal/teststubs"
	"github.com/preston-bernstein/football-data-sensor/internal/testutil"
)

var _ entity.Entity = (*FixtureSensor)(nil)

func sampleMatch(i int) fixtures.Match {
	return fixtures.Match{
		UTCDate:     time.Date(2024, 3, 10+i, 15, 0, 0, 0, time.UTC),
		HomeTeam:    fixtures.Team{ShortName: fmt.Sprintf("Home %d", i), Crest: fmt.Sprintf("home-%d.png", i)},
		AwayTeam:    fixtures.Team{ShortName: fmt.Sprintf("Away %d", i), Crest: fmt.Sprintf("away-%d.png", i)},
		Competition: "Premier League",
	}
}

func sampleMatches(n int) []fixtures.Match {
	out := make([]fixtures.Match, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sampleMatch(i))
	}
	return out
}

func newTestSensor(t *testing.T, cfg Config, provider providers.FixtureProvider) *FixtureSensor {
	t.Helper()
	s, err := New(cfg, provider, WithClock(testutil.NowAt(testutil.MustParseUTC("2024-03-01T12:00:00Z"))))
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	return s
}

func TestNewAppliesDefaultsWithoutNetwork(t *testing.T) {
	provider := &teststubs.StubProvider{}
	s := newTestSensor(t, Config{TeamID: "57"}, provider)

	if s.Name() != DefaultName {
		t.Fatalf("expected default name, got %s", s.Name())
	}
	if s.maxFixtures != DefaultMaxFixtures {
		t.Fatalf("expected default max fixtures, got %d", s.maxFixtures)
	}
	if s.Location() != time.UTC {
		t.Fatalf("expected UTC default location, got %s", s.Location())
	}
	if _, ok := s.State(); ok {
		t.Fatal("expected absent state before first refresh")
	}
	if got := s.Fixtures(); len(got) != 0 {
		t.Fatalf("expected empty fixtures, got %d", len(got))
	}
	if !s.RefreshedAt().IsZero() {
		t.Fatal("expected zero refreshed-at before first refresh")
	}
	if provider.Calls.Load() != 0 {
		t.Fatal("expected no provider calls at construction")
	}
}

func TestNewRejectsUnknownTimezone(t *testing.T) {
	_, err := New(Config{TeamID: "57", Timezone: "Mars/Olympus_Mons"}, &teststubs.StubProvider{})
	if !IsTimezoneError(err) {
		t.Fatalf("expected timezone error, got %v", err)
	}
}

func TestRefreshKeepsAllWhenUnderLimit(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			provider := &teststubs.StubProvider{Matches: sampleMatches(n)}
			s := newTestSensor(t, Config{TeamID: "57", MaxFixtures: 5}, provider)

			if err := s.Refresh(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := s.Fixtures()
			if len(got) != n {
				t.Fatalf("expected %d fixtures, got %d", n, len(got))
			}
			for i, rec := range got {
				if rec.HomeTeam != fmt.Sprintf("Home %d", i) {
					t.Fatalf("expected upstream order at %d, got %s", i, rec.HomeTeam)
				}
			}
		})
	}
}

func TestRefreshTruncatesFromFront(t *testing.T) {
	provider := &teststubs.StubProvider{Matches: sampleMatches(8)}
	s := newTestSensor(t, Config{TeamID: "57", MaxFixtures: 3}, provider)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s.Fixtures()
	if len(got) != 3 {
		t.Fatalf("expected 3 fixtures, got %d", len(got))
	}
	for i, rec := range got {
		if rec.AwayTeam != fmt.Sprintf("Away %d", i) {
			t.Fatalf("expected front of list at %d, got %s", i, rec.AwayTeam)
		}
	}
	if team, limit := provider.LastRequest(); team != "57" || limit != 3 {
		t.Fatalf("expected provider asked for team 57 limit 3, got %s/%d", team, limit)
	}
}

func TestRefreshConvertsTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	provider := &teststubs.StubProvider{Matches: []fixtures.Match{
		{UTCDate: time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)},
		{UTCDate: time.Date(2024, 3, 12, 2, 30, 0, 0, time.UTC)},
	}}
	s := newTestSensor(t, Config{TeamID: "57", Timezone: "America/New_York"}, provider)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s.Fixtures()
	// 2024-03-10 is the US DST switch; 15:00 UTC is 11:00 EDT.
	if got[0].Kickoff != "11.00" || got[0].DateFormatted != "Sunday, 10 Mar" {
		t.Fatalf("unexpected first fixture %+v", got[0])
	}
	// Crosses midnight backwards into the previous local day.
	if got[1].Kickoff != "22.30" || got[1].DateFormatted != "Monday, 11 Mar" {
		t.Fatalf("unexpected second fixture %+v", got[1])
	}
	for _, rec := range got {
		if rec.Date.Location().String() != loc.String() {
			t.Fatalf("expected date in %s, got %s", loc, rec.Date.Location())
		}
	}
}

func TestRefreshUTCKickoffRoundTrip(t *testing.T) {
	provider := &teststubs.StubProvider{Matches: []fixtures.Match{{UTCDate: time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)}}}
	s := newTestSensor(t, Config{TeamID: "57", Timezone: "UTC"}, provider)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Fixtures()[0].Kickoff; got != "15.00" {
		t.Fatalf("expected kickoff 15.00, got %s", got)
	}
}

func TestRefreshFailureLeavesSnapshotUntouched(t *testing.T) {
	provider := &teststubs.StubProvider{Matches: sampleMatches(2)}
	s := newTestSensor(t, Config{TeamID: "57"}, provider)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Fixtures()
	refreshedAt := s.RefreshedAt()

	provider.Matches = sampleMatches(4)
	provider.Err = &providers.UpstreamHTTPError{StatusCode: http.StatusUnauthorized}

	err := s.Refresh(context.Background())
	if !IsUpstreamFailure(err) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
	if state, ok := s.State(); !ok || state != StatusOnline {
		t.Fatalf("expected prior state online, got %q (%v)", state, ok)
	}
	after := s.Fixtures()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("expected fixtures unchanged, got %+v", after)
	}
	if !s.RefreshedAt().Equal(refreshedAt) {
		t.Fatal("expected refreshed-at unchanged after failure")
	}
}

func TestRefreshFailureBeforeFirstSuccessKeepsStateAbsent(t *testing.T) {
	provider := &teststubs.StubProvider{Err: &providers.MalformedResponseError{Reason: "missing matches"}}
	s := newTestSensor(t, Config{TeamID: "57"}, provider)

	err := s.Refresh(context.Background())
	if !IsMalformedResponse(err) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
	if _, ok := s.State(); ok {
		t.Fatal("expected state to remain absent")
	}
	if len(s.Fixtures()) != 0 {
		t.Fatal("expected fixtures to remain empty")
	}
}

func TestRefreshWithoutProvider(t *testing.T) {
	s := newTestSensor(t, Config{TeamID: "57"}, nil)
	if err := s.Refresh(context.Background()); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestAttributesStampReadTime(t *testing.T) {
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := New(Config{TeamID: "57"}, &teststubs.StubProvider{Matches: sampleMatches(1)},
		WithClock(func() time.Time { return current }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current = current.Add(time.Hour)
	attrs := s.Attributes()
	stamp, ok := attrs[AttrLastUpdated].(time.Time)
	if !ok || !stamp.Equal(current) {
		t.Fatalf("expected last_updated at read time %s, got %v", current, attrs[AttrLastUpdated])
	}
	if s.RefreshedAt().Equal(stamp) {
		t.Fatal("expected refreshed-at to reflect fetch time, not read time")
	}
	list, ok := attrs[AttrFixtures].([]fixtures.Record)
	if !ok || len(list) != 1 {
		t.Fatalf("expected fixtures attribute, got %#v", attrs[AttrFixtures])
	}
}

func TestFixturesReturnsCopy(t *testing.T) {
	s := newTestSensor(t, Config{TeamID: "57"}, &teststubs.StubProvider{Matches: sampleMatches(1)})
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s.Fixtures()
	got[0].HomeTeam = "mutated"
	if s.Fixtures()[0].HomeTeam == "mutated" {
		t.Fatal("expected callers not to mutate the published snapshot")
	}
}

func TestReadersSeeCompleteSnapshots(t *testing.T) {
	provider := &teststubs.StubProvider{Matches: sampleMatches(5)}
	s := newTestSensor(t, Config{TeamID: "57", MaxFixtures: 5}, provider)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got := s.Fixtures()
				if n := len(got); n != 0 && n != 5 {
					t.Errorf("observed partial snapshot of %d fixtures", n)
					return
				}
				_ = s.Attributes()
			}
		}()
	}

	for i := 0; i < 50; i++ {
		if err := s.Refresh(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	close(stop)
	wg.Wait()
}

func TestRefreshEndToEndWithFootballDataClient(t *testing.T) {
	body := `{"matches": [
		{"utcDate": "2024-03-10T15:00:00Z",
		 "homeTeam": {"shortName": "Arsenal", "crest": "https://crests.football-data.org/57.png"},
		 "awayTeam": {"shortName": "Chelsea", "crest": "https://crests.football-data.org/61.png"},
		 "competition": {"name": "Premier League"}},
		{"utcDate": "2024-03-17T16:30:00Z",
		 "homeTeam": {"shortName": "Man City", "crest": "https://crests.football-data.org/65.png"},
		 "awayTeam": {"shortName": "Arsenal", "crest": "https://crests.football-data.org/57.png"},
		 "competition": {"name": "Premier League"}}
	]}`
	status := http.StatusOK
	var authHeader string
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		authHeader = req.Header.Get("X-Auth-Token")
		payload := body
		if status != http.StatusOK {
			payload = `{"message":"unauthorized"}`
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(payload)),
			Header:     make(http.Header),
		}, nil
	})
	client := footballdata.NewClient(footballdata.Config{
		APIKey:     "secret",
		HTTPClient: &http.Client{Transport: rt},
	})
	s := newTestSensor(t, Config{TeamID: "57", MaxFixtures: 5, Timezone: "UTC"}, client)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authHeader != "secret" {
		t.Fatalf("expected api key header, got %q", authHeader)
	}
	if state, ok := s.State(); !ok || state != StatusOnline {
		t.Fatalf("expected online, got %q (%v)", state, ok)
	}

	got := s.Fixtures()
	if len(got) != 2 {
		t.Fatalf("expected 2 fixtures, got %d", len(got))
	}
	first := got[0]
	if first.HomeTeam != "Arsenal" || first.AwayTeam != "Chelsea" {
		t.Fatalf("unexpected teams %+v", first)
	}
	if first.Kickoff != "15.00" || first.DateFormatted != "Sunday, 10 Mar" {
		t.Fatalf("unexpected kickoff/date %+v", first)
	}
	if first.Competition != "Premier League" || first.HomeTeamLogo != "https://crests.football-data.org/57.png" {
		t.Fatalf("unexpected competition/crest %+v", first)
	}

	status = http.StatusUnauthorized
	err := s.Refresh(context.Background())
	upErr, ok := providers.AsUpstreamHTTPError(err)
	if !ok || upErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 upstream error, got %v", err)
	}
	if len(s.Fixtures()) != 2 {
		t.Fatal("expected fixtures unchanged after 401")
	}
}

func TestRefreshMissingMatchesKeyEndToEnd(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		_ = req
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"count": 0}`)),
			Header:     make(http.Header),
		}, nil
	})
	client := footballdata.NewClient(footballdata.Config{HTTPClient: &http.Client{Transport: rt}})
	s := newTestSensor(t, Config{TeamID: "57"}, client)

	if err := s.Refresh(context.Background()); !IsMalformedResponse(err) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
	if _, ok := s.State(); ok {
		t.Fatal("expected state untouched")
	}
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestEntityIDAndMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	provider := &teststubs.StubProvider{Matches: sampleMatches(2)}
	s, err := New(Config{TeamID: "57", Name: "Arsenal Fixtures"}, provider, WithMetrics(rec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.EntityID() != "sensor.arsenal_fixtures" {
		t.Fatalf("unexpected entity id %s", s.EntityID())
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider.Err = errors.New("boom")
	_ = s.Refresh(context.Background())

	refreshes, failures := rec.SensorRefreshes("sensor.arsenal_fixtures")
	if refreshes != 2 || failures != 1 {
		t.Fatalf("expected 2 refreshes/1 failure, got %d/%d", refreshes, failures)
	}
	if got := rec.LastFixtureCount("sensor.arsenal_fixtures"); got != 2 {
		t.Fatalf("expected last fixture count 2, got %d", got)
	}
}
