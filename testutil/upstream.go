package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// RecordedRequest is a request received by an Upstream
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	ContentType   string
	Body          []byte
}

// Upstream is a fake HTTP API that records requests and replies with a fixed response
type Upstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []RecordedRequest
}

// NewUpstream starts a fake API answering every request with status and body. The
// server is closed when the test ends.
func NewUpstream(t *testing.T, status int, body string) *Upstream {
	t.Helper()
	u := &Upstream{status: status, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Server.Close)
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.requests = append(u.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	status, respBody := u.status, u.body
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, respBody)
}

// URL returns the base URL of the fake API
func (u *Upstream) URL() string {
	return u.Server.URL
}

// SetResponse changes the reply for subsequent requests
func (u *Upstream) SetResponse(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.body = body
}

// Requests returns a copy of the requests received so far
func (u *Upstream) Requests() []RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]RecordedRequest, len(u.requests))
	copy(out, u.requests)
	return out
}

// LastRequest returns the most recent request, failing the test if there is none
func (u *Upstream) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	reqs := u.Requests()
	if len(reqs) == 0 {
		t.Fatal("upstream received no requests")
	}
	return reqs[len(reqs)-1]
}

// NewUnreachableURL returns the URL of a server that has already been shut down
func NewUnreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}
