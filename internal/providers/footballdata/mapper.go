package footballdata

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
	"github.com/preston-bernstein/football-data-sensor/internal/timeutil"
)

func mapMatch(m matchResponse) (fixtures.Match, error) {
	if m.UTCDate == nil {
		return fixtures.Match{}, errors.New("missing utcDate")
	}
	kickoff, err := timeutil.ParseUpstream(*m.UTCDate)
	if err != nil {
		return fixtures.Match{}, fmt.Errorf("invalid utcDate %q: %w", *m.UTCDate, err)
	}
	home, err := mapTeam("homeTeam", m.HomeTeam)
	if err != nil {
		return fixtures.Match{}, err
	}
	away, err := mapTeam("awayTeam", m.AwayTeam)
	if err != nil {
		return fixtures.Match{}, err
	}
	if m.Competition == nil || m.Competition.Name == nil {
		return fixtures.Match{}, errors.New("missing competition.name")
	}

	return fixtures.Match{
		UTCDate:     kickoff,
		HomeTeam:    home,
		AwayTeam:    away,
		Competition: *m.Competition.Name,
	}, nil
}

func mapTeam(field string, t *teamResponse) (fixtures.Team, error) {
	if t == nil {
		return fixtures.Team{}, fmt.Errorf("missing %s", field)
	}
	if t.ShortName == nil {
		return fixtures.Team{}, fmt.Errorf("missing %s.shortName", field)
	}
	if t.Crest == nil {
		return fixtures.Team{}, fmt.Errorf("missing %s.crest", field)
	}
	return fixtures.Team{ShortName: *t.ShortName, Crest: *t.Crest}, nil
}
