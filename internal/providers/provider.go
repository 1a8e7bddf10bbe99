package providers

import (
	"context"
	"errors"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
)

// ErrProviderUnavailable is returned when no upstream provider is configured.
var ErrProviderUnavailable = errors.New("provider unavailable")

// FixtureProvider defines how upstream fixtures are fetched and normalized.
// At most limit matches are returned, in upstream order. A limit <= 0 means no cap.
type FixtureProvider interface {
	FetchScheduledMatches(ctx context.Context, teamID string, limit int) ([]fixtures.Match, error)
}
