package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
	"github.com/preston-bernstein/football-data-sensor/internal/timeutil"
)

// SampleMatch returns a populated match between home and away.
func SampleMatch(home, away string, kickoff time.Time) fixtures.Match {
	return fixtures.Match{
		UTCDate:     kickoff.UTC(),
		HomeTeam:    fixtures.Team{ShortName: home, Crest: crest(home)},
		AwayTeam:    fixtures.Team{ShortName: away, Crest: crest(away)},
		Competition: "Premier League",
	}
}

// MatchesPayload renders matches the way football-data.org returns them.
func MatchesPayload(matches ...fixtures.Match) string {
	entries := make([]string, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, fmt.Sprintf(
			`{"utcDate":%q,"status":"SCHEDULED","homeTeam":{"shortName":%q,"crest":%q},"awayTeam":{"shortName":%q,"crest":%q},"competition":{"name":%q}}`,
			m.UTCDate.UTC().Format(timeutil.UpstreamLayout),
			m.HomeTeam.ShortName, m.HomeTeam.Crest,
			m.AwayTeam.ShortName, m.AwayTeam.Crest,
			m.Competition,
		))
	}
	return `{"matches":[` + strings.Join(entries, ",") + `]}`
}

func crest(team string) string {
	return "https://crests.football-data.org/" + strings.ToLower(strings.ReplaceAll(team, " ", "-")) + ".png"
}
