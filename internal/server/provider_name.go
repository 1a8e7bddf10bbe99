package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/football-data-sensor/internal/providers"
)

// normalizeProviderName returns a lower-cased provider name, deriving from the instance when not configured.
func normalizeProviderName(raw string, provider providers.FixtureProvider) string {
	if raw != "" {
		return strings.ToLower(raw)
	}
	if provider != nil {
		return strings.ToLower(fmt.Sprintf("%T", provider))
	}
	return "provider"
}
