package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
	"github.com/preston-bernstein/football-data-sensor/internal/logging"
	"github.com/preston-bernstein/football-data-sensor/internal/metrics"
)

// instrumentedProvider wraps a FixtureProvider with logging and metrics. It never retries.
type instrumentedProvider struct {
	inner        FixtureProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	now          func() time.Time
}

// NewInstrumentedProvider wraps the given provider so every fetch is logged and recorded.
func NewInstrumentedProvider(inner FixtureProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string) FixtureProvider {
	if providerName == "" {
		providerName = "provider"
	}
	return &instrumentedProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		now:          time.Now,
	}
}

func (p *instrumentedProvider) FetchScheduledMatches(ctx context.Context, teamID string, limit int) ([]fixtures.Match, error) {
	if p.inner == nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "provider unavailable")
		return nil, ErrProviderUnavailable
	}

	start := p.now()
	matches, err := p.inner.FetchScheduledMatches(ctx, teamID, limit)
	elapsed := p.now().Sub(start)
	p.metrics.RecordProviderAttempt(p.providerName, elapsed, err)

	if err != nil {
		if upErr, ok := AsUpstreamHTTPError(err); ok && upErr.RateLimited() {
			p.metrics.RecordRateLimit(p.providerName, upErr.RetryAfter)
		}
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "provider fetch failed",
			slog.String(logging.FieldTeamID, teamID),
			slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
			slog.Any("error", err),
		)
		return nil, err
	}

	logWithProvider(ctx, p.logger, slog.LevelInfo, p.providerName, "provider fetch complete",
		slog.String(logging.FieldTeamID, teamID),
		slog.Int(logging.FieldCount, len(matches)),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	return matches, nil
}

// Unwrap exposes the wrapped provider.
func (p *instrumentedProvider) Unwrap() FixtureProvider {
	return p.inner
}
