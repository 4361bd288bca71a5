// Package testkit provides small helpers for HTTP handler tests: a JSON
// request builder and response assertions built on testify.
package testkit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request describes one HTTP call against a handler under test.
type Request struct {
	Method string
	Path   string
	Body   interface{}       // marshalled to JSON when non-nil
	Header map[string]string // extra headers, e.g. Authorization
}

// Do runs req against h and returns the recorded response.
func Do(t *testing.T, h http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		require.NoError(t, err, "marshal request body")
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	if req.Body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Header {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// DecodeJSON unmarshals the recorded body into dest, failing the test on
// malformed JSON.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest),
		"response is not valid JSON\nbody: %s", w.Body.String())
}

// AssertStatus checks the recorded status code and dumps the body on mismatch.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, w.Code, "unexpected status\nbody: %s", w.Body.String())
}

// AssertJSONEq compares the recorded body against expected JSON text,
// ignoring key order and whitespace.
func AssertJSONEq(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expVal), "expected value is not valid JSON")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actVal),
		"response is not valid JSON\nbody: %s", w.Body.String())
	assert.Equal(t, expVal, actVal, "response body mismatch")
}
