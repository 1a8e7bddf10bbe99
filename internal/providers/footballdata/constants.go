package footballdata

import "time"

const (
	providerName       = "football-data"
	defaultBaseURL     = "https://api.football-data.org/v4"
	defaultHTTPTimeout = 10 * time.Second
	authHeader         = "X-Auth-Token"
	resetHeader        = "X-RequestCounter-Reset"
	statusScheduled    = "SCHEDULED"
	errorBodyLimit     = 512
)
