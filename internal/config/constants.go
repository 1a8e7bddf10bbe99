package config

import "time"

const (
	envPort       = "PORT"
	envProvider   = "PROVIDER"
	envConfigFile = "SENSOR_CONFIG"
	envAdminToken = "ADMIN_TOKEN"

	envAPIKey         = "FOOTBALL_DATA_API_KEY"
	envBaseURL        = "FOOTBALL_DATA_BASE_URL"
	envHTTPTimeout    = "HTTP_TIMEOUT"
	envTeamID         = "TEAM_ID"
	envMaxFixtures    = "MAX_FIXTURES"
	envUpdateInterval = "UPDATE_INTERVAL"
	envSensorName     = "SENSOR_NAME"
	envTimeZone       = "TIME_ZONE"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort        = "4000"
	defaultProvider    = ProviderFootballData
	defaultMetricsPort = "9090"
	defaultService     = "football-data-sensor"

	defaultBaseURL     = "https://api.football-data.org/v4"
	defaultHTTPTimeout = 10 * time.Second
	defaultMaxFixtures = 5
	// Seconds between refreshes. The free football-data.org tier allows 10 req/min.
	defaultUpdateInterval = 360
	defaultSensorName     = "football_data"
	defaultTimeZone       = "UTC"
)

// Provider names accepted by PROVIDER.
const (
	ProviderFootballData = "footballdata"
	ProviderDemo         = "demo"
)
