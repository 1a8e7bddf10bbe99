package server

import (
	"log/slog"

	"github.com/preston-bernstein/football-data-sensor/internal/config"
	"github.com/preston-bernstein/football-data-sensor/internal/providers"
	"github.com/preston-bernstein/football-data-sensor/internal/providers/demo"
	"github.com/preston-bernstein/football-data-sensor/internal/providers/footballdata"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.FixtureProvider {
	switch cfg.Provider {
	case config.ProviderFootballData, "":
		return footballdata.NewClient(footballdata.Config{
			BaseURL: cfg.FootballData.BaseURL,
			APIKey:  cfg.Sensor.APIKey,
			Timeout: cfg.FootballData.Timeout,
		})
	case config.ProviderDemo:
		return demo.New()
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to demo", slog.String("provider", cfg.Provider))
		}
		return demo.New()
	}
}
