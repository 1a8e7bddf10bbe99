package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUpstreamHTTPErrorString(t *testing.T) {
	err := &UpstreamHTTPError{Provider: "football-data", StatusCode: 401, Message: "invalid token"}
	if got := err.Error(); !strings.Contains(got, "401") || !strings.Contains(got, "invalid token") {
		t.Fatalf("expected status and message in error string, got %q", got)
	}

	noMsg := &UpstreamHTTPError{StatusCode: 503}
	if got := noMsg.Error(); !strings.Contains(got, "Service Unavailable") {
		t.Fatalf("expected status text fallback, got %q", got)
	}

	unknown := &UpstreamHTTPError{}
	if got := unknown.Error(); got == "" {
		t.Fatalf("expected fallback message")
	}
}

func TestUpstreamHTTPErrorRateLimited(t *testing.T) {
	if !(&UpstreamHTTPError{StatusCode: 429}).RateLimited() {
		t.Fatal("expected 429 to be rate limited")
	}
	if (&UpstreamHTTPError{StatusCode: 500}).RateLimited() {
		t.Fatal("expected 500 not to be rate limited")
	}
	var nilErr *UpstreamHTTPError
	if nilErr.RateLimited() {
		t.Fatal("expected nil error not to be rate limited")
	}
}

func TestAsUpstreamHTTPErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", &UpstreamHTTPError{StatusCode: 401})
	upErr, ok := AsUpstreamHTTPError(wrapped)
	if !ok || upErr.StatusCode != 401 {
		t.Fatalf("expected to unwrap upstream error, got %v", upErr)
	}
	if _, ok := AsUpstreamHTTPError(errors.New("boom")); ok {
		t.Fatal("expected plain error not to unwrap")
	}
}

func TestMalformedResponseErrorUnwraps(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := fmt.Errorf("refresh: %w", &MalformedResponseError{Provider: "football-data", Reason: "decode body", Err: cause})

	mErr, ok := AsMalformedResponseError(err)
	if !ok {
		t.Fatal("expected to unwrap malformed response error")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
	if got := mErr.Error(); got != "football-data: malformed response: decode body: unexpected EOF" {
		t.Fatalf("unexpected message %q", got)
	}
}
