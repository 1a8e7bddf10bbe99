package footballdata

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

// retryAfter reads the quota reset hint; football-data sends X-RequestCounter-Reset in seconds.
func retryAfter(h http.Header) time.Duration {
	for _, key := range []string{resetHeader, "Retry-After"} {
		raw := strings.TrimSpace(h.Get(key))
		if raw == "" {
			continue
		}
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
