package timeutil

import "time"

const (
	// UpstreamLayout is the UTC timestamp format football-data uses for utcDate.
	UpstreamLayout = "2006-01-02T15:04:05Z"
	// MatchDateLayout renders e.g. "Sunday, 10 Mar".
	MatchDateLayout = "Monday, 02 Jan"
	// KickoffLayout renders a 24-hour kickoff time such as "15.00".
	KickoffLayout = "15.04"
)

// ParseUpstream parses an upstream UTC timestamp.
func ParseUpstream(value string) (time.Time, error) {
	return time.ParseInLocation(UpstreamLayout, value, time.UTC)
}

// FormatMatchDate formats a kickoff as a weekday/day/month string in its current location.
func FormatMatchDate(t time.Time) string {
	return t.Format(MatchDateLayout)
}

// FormatKickoff formats a kickoff as HH.MM in its current location.
func FormatKickoff(t time.Time) string {
	return t.Format(KickoffLayout)
}
