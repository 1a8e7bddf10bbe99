package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

// Serve builds a request from method, path and body and records h's response.
func Serve(h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	return ServeRequest(h, httptest.NewRequest(method, path, body))
}

func ServeRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// AssertStatus fails the test with the response body when the status differs.
func AssertStatus(t testing.TB, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if got := rr.Code; got != want {
		t.Fatalf("status = %d, want %d; body: %s", got, want, rr.Body.String())
	}
}

// DecodeJSON unmarshals the recorded body into dest.
func DecodeJSON(t testing.TB, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(rr.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}
