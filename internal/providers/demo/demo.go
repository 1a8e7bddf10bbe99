package demo

import (
	"context"
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
)

// Provider returns a static set of upcoming matches useful for local testing and bootstrapping.
type Provider struct {
	now func() time.Time
}

// New creates a demo provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// FetchScheduledMatches returns a deterministic set of matches kicking off after now.
func (p *Provider) FetchScheduledMatches(ctx context.Context, teamID string, limit int) ([]fixtures.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = teamID

	// Next Saturday 15:00 UTC, then the following Wednesday 19:45 UTC.
	start := p.now().UTC().Truncate(24 * time.Hour)
	daysUntilSaturday := (int(time.Saturday) - int(start.Weekday()) + 7) % 7
	if daysUntilSaturday == 0 {
		daysUntilSaturday = 7
	}
	saturday := start.AddDate(0, 0, daysUntilSaturday)

	matches := []fixtures.Match{
		{
			UTCDate:     saturday.Add(15 * time.Hour),
			HomeTeam:    fixtures.Team{ShortName: "Arsenal", Crest: "https://crests.football-data.org/57.png"},
			AwayTeam:    fixtures.Team{ShortName: "Chelsea", Crest: "https://crests.football-data.org/61.png"},
			Competition: "Premier League",
		},
		{
			UTCDate:     saturday.AddDate(0, 0, 4).Add(19*time.Hour + 45*time.Minute),
			HomeTeam:    fixtures.Team{ShortName: "Bayern", Crest: "https://crests.football-data.org/5.png"},
			AwayTeam:    fixtures.Team{ShortName: "Arsenal", Crest: "https://crests.football-data.org/57.png"},
			Competition: "UEFA Champions League",
		},
	}

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
