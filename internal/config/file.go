package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML document named by SENSOR_CONFIG.
//
//	api_key: ${FOOTBALL_DATA_API_KEY}
//	team_id: "57"
//	max_fixtures: 5
//	update_interval: 360
//	name: arsenal_fixtures
//	time_zone: Europe/London
type fileConfig struct {
	SensorConfig `yaml:",inline"`
}

// loadFile reads path, expands ${VAR} references and overlays non-zero values onto base.
func loadFile(path string, base SensorConfig) (SensorConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}

	return mergeSensor(base, fc.SensorConfig), nil
}

func mergeSensor(base, override SensorConfig) SensorConfig {
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.TeamID != "" {
		base.TeamID = override.TeamID
	}
	if override.MaxFixtures != 0 {
		base.MaxFixtures = override.MaxFixtures
	}
	if override.UpdateInterval != 0 {
		base.UpdateInterval = override.UpdateInterval
	}
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.TimeZone != "" {
		base.TimeZone = override.TimeZone
	}
	return base
}
