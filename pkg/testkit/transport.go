package testkit

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport implements http.RoundTripper. It matches outgoing requests by
// URL prefix and returns canned responses instead of touching the network.
//
// Install it on the shared client before the test:
//
//	mt := testkit.NewMockTransport()
//	mt.Stub("https://api.example.com/rates", 200, `{"rates":{"EUR":0.9}}`)
//	httpclient.DefaultClient.Transport = mt
type MockTransport struct {
	mu    sync.Mutex
	stubs []*stub
}

type stub struct {
	urlPrefix string
	status    int
	body      string
	calls     int
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Stub registers a canned response for requests whose URL starts with urlPrefix.
// Stubs are matched in registration order.
func (mt *MockTransport) Stub(urlPrefix string, status int, body string) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, &stub{urlPrefix: urlPrefix, status: status, body: body})
}

// RoundTrip intercepts the outgoing request and returns the first matching stub.
// An unmatched request fails with an error rather than a real network call.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, s := range mt.stubs {
		if !strings.HasPrefix(req.URL.String(), s.urlPrefix) {
			continue
		}
		s.calls++

		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: s.status,
			Status:     fmt.Sprintf("%d %s", s.status, http.StatusText(s.status)),
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(s.body)),
			Request:    req,
		}, nil
	}

	return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s", req.URL)
}

// Unmatched returns the URL prefixes of stubs that were never hit.
func (mt *MockTransport) Unmatched() []string {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var missed []string
	for _, s := range mt.stubs {
		if s.calls == 0 {
			missed = append(missed, s.urlPrefix)
		}
	}
	return missed
}
