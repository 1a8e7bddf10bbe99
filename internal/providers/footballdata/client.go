package footballdata

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/football-data-sensor/internal/domain/fixtures"
	"github.com/preston-bernstein/football-data-sensor/internal/providers"
)

// Config controls how the football-data client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client fetches scheduled matches from the football-data.org v4 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
}

// NewClient constructs a football-data client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// FetchScheduledMatches issues a single GET for the team's scheduled matches and
// maps at most limit of them, preserving upstream order.
func (c *Client) FetchScheduledMatches(ctx context.Context, teamID string, limit int) ([]fixtures.Match, error) {
	req, err := c.buildRequest(ctx, teamID)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, &providers.UpstreamHTTPError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter(resp.Header),
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var payload matchesResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil {
		return nil, &providers.MalformedResponseError{Provider: providerName, Reason: "decode body", Err: decodeErr}
	}
	if payload.Matches == nil {
		return nil, &providers.MalformedResponseError{Provider: providerName, Reason: "missing matches"}
	}

	raw := *payload.Matches
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}

	out := make([]fixtures.Match, 0, len(raw))
	for i, entry := range raw {
		var m matchResponse
		if err := json.Unmarshal(entry, &m); err != nil {
			return nil, &providers.MalformedResponseError{Provider: providerName, Reason: "decode match", Err: err}
		}
		match, err := mapMatch(m)
		if err != nil {
			return nil, &providers.MalformedResponseError{Provider: providerName, Reason: "match " + strconv.Itoa(i), Err: err}
		}
		out = append(out, match)
	}
	return out, nil
}

func (c *Client) buildRequest(ctx context.Context, teamID string) (*http.Request, error) {
	endpoint := c.baseURL + "/teams/" + url.PathEscape(teamID) + "/matches"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("status", statusScheduled)
	req.URL.RawQuery = q.Encode()

	req.Header.Set(authHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
