package fixtures

import "time"

// Team identifies one side of a match as reported upstream.
type Team struct {
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

// Match is a scheduled match normalized from the upstream payload.
type Match struct {
	UTCDate     time.Time `json:"utcDate"`
	HomeTeam    Team      `json:"homeTeam"`
	AwayTeam    Team      `json:"awayTeam"`
	Competition string    `json:"competition"`
}

// Record is the fixture shape exposed on the sensor's attributes.
type Record struct {
	Date          time.Time `json:"date"`
	DateFormatted string    `json:"date_formatted"`
	Kickoff       string    `json:"kickoff"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	HomeTeamLogo  string    `json:"home_team_logo"`
	AwayTeamLogo  string    `json:"away_team_logo"`
	Competition   string    `json:"competition"`
}
