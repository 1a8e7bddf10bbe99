package config

import "time"

// SensorConfig mirrors the sensor platform options.
type SensorConfig struct {
	APIKey string `yaml:"api_key"`
	TeamID string `yaml:"team_id"`
	// MaxFixtures caps how many upcoming matches are exposed.
	MaxFixtures int `yaml:"max_fixtures"`
	// UpdateInterval is the refresh cadence in seconds.
	UpdateInterval int    `yaml:"update_interval"`
	Name           string `yaml:"name"`
	TimeZone       string `yaml:"time_zone"`
}

// Interval returns UpdateInterval as a duration.
func (c SensorConfig) Interval() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Second
}

// FootballDataConfig controls how we talk to the football-data.org API.
type FootballDataConfig struct {
	BaseURL string
	Timeout time.Duration
}

func defaultSensor() SensorConfig {
	return SensorConfig{
		MaxFixtures:    defaultMaxFixtures,
		UpdateInterval: defaultUpdateInterval,
		Name:           defaultSensorName,
		TimeZone:       defaultTimeZone,
	}
}

// applySensorEnv lets environment variables override file or default values.
func applySensorEnv(c SensorConfig) SensorConfig {
	c.APIKey = envOrDefault(envAPIKey, c.APIKey)
	c.TeamID = envOrDefault(envTeamID, c.TeamID)
	c.MaxFixtures = intEnvOrDefault(envMaxFixtures, c.MaxFixtures)
	c.UpdateInterval = intEnvOrDefault(envUpdateInterval, c.UpdateInterval)
	c.Name = envOrDefault(envSensorName, c.Name)
	c.TimeZone = envOrDefault(envTimeZone, c.TimeZone)
	return c
}

func loadFootballData() FootballDataConfig {
	return FootballDataConfig{
		BaseURL: envOrDefault(envBaseURL, defaultBaseURL),
		Timeout: durationEnvOrDefault(envHTTPTimeout, defaultHTTPTimeout),
	}
}
