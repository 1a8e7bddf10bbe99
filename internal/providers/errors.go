package providers

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// UpstreamHTTPError captures a non-success response from an upstream provider.
type UpstreamHTTPError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *UpstreamHTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "upstream request failed"
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, msg)
}

// RateLimited reports whether the upstream rejected the call for quota reasons.
func (e *UpstreamHTTPError) RateLimited() bool {
	return e != nil && e.StatusCode == http.StatusTooManyRequests
}

// MalformedResponseError captures a response body that is not valid JSON or lacks expected fields.
type MalformedResponseError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	msg := "malformed response"
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// AsUpstreamHTTPError attempts to unwrap an error into an UpstreamHTTPError.
func AsUpstreamHTTPError(err error) (*UpstreamHTTPError, bool) {
	var upErr *UpstreamHTTPError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

// AsMalformedResponseError attempts to unwrap an error into a MalformedResponseError.
func AsMalformedResponseError(err error) (*MalformedResponseError, bool) {
	var mErr *MalformedResponseError
	if errors.As(err, &mErr) {
		return mErr, true
	}
	return nil, false
}
