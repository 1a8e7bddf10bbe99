package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/preston-bernstein/football-data-sensor/internal/providers"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port         string
	Provider     string
	AdminToken   string
	Sensor       SensorConfig
	FootballData FootballDataConfig
	Metrics      MetricsConfig
}

// Load builds the configuration from defaults, the optional SENSOR_CONFIG
// YAML file, and environment variables, in increasing precedence.
func Load() (Config, error) {
	return LoadWithFile(envOrDefault(envConfigFile, ""))
}

// LoadWithFile is Load with the YAML file named explicitly. An empty path skips the file.
func LoadWithFile(path string) (Config, error) {
	sensor := defaultSensor()
	if path != "" {
		var err error
		if sensor, err = loadFile(path, sensor); err != nil {
			return Config{}, err
		}
	}

	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		Provider:     strings.ToLower(envOrDefault(envProvider, defaultProvider)),
		AdminToken:   envOrDefault(envAdminToken, ""),
		Sensor:       applySensorEnv(sensor),
		FootballData: loadFootballData(),
		Metrics:      loadMetrics(),
	}, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderFootballData:
		if strings.TrimSpace(c.Sensor.APIKey) == "" {
			errs = append(errs, errors.New("api_key is required"))
		}
		if strings.TrimSpace(c.Sensor.TeamID) == "" {
			errs = append(errs, errors.New("team_id is required"))
		}
	case ProviderDemo:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}
	if c.Sensor.MaxFixtures <= 0 {
		errs = append(errs, fmt.Errorf("max_fixtures must be positive, got %d", c.Sensor.MaxFixtures))
	}
	if c.Sensor.UpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("update_interval must be positive, got %d", c.Sensor.UpdateInterval))
	}
	if _, err := providers.ResolveTimezone(c.Sensor.TimeZone); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
