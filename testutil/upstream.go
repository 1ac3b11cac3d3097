package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/kbukum/poolfetch/component"
)

var _ TestComponent = (*Upstream)(nil)

// RecordedRequest is a request received by an Upstream.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Upstream is a recording HTTP server for tests.
type Upstream struct {
	name    string
	handler http.Handler

	mu       sync.Mutex
	server   *httptest.Server
	requests []RecordedRequest
}

// NewUpstream creates an upstream that records requests and then delegates
// to handler. It listens once started.
func NewUpstream(handler http.Handler) *Upstream {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	return &Upstream{name: "upstream", handler: handler}
}

// JSONHandler responds to every request with status and body as JSON.
func JSONHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// EchoHandler writes back the request method and body.
func EchoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Echo-Method", r.Method)
		_, _ = w.Write(body)
	})
}

func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	u.mu.Lock()
	u.requests = append(u.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	u.mu.Unlock()

	u.handler.ServeHTTP(w, r)
}

// Name returns the component name.
func (u *Upstream) Name() string { return u.name }

// Start begins listening on a loopback address.
func (u *Upstream) Start(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.server == nil {
		u.server = httptest.NewServer(u)
	}
	return nil
}

// Stop shuts the server down.
func (u *Upstream) Stop(_ context.Context) error {
	u.mu.Lock()
	server := u.server
	u.server = nil
	u.mu.Unlock()
	if server != nil {
		server.Close()
	}
	return nil
}

// Health reports whether the server is listening.
func (u *Upstream) Health(_ context.Context) component.Health {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.server == nil {
		return component.Health{Name: u.name, Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: u.name, Status: component.StatusHealthy}
}

// Reset forgets recorded requests.
func (u *Upstream) Reset(_ context.Context) error {
	u.mu.Lock()
	u.requests = nil
	u.mu.Unlock()
	return nil
}

// URL returns the server base URL. It panics if the upstream is not started.
func (u *Upstream) URL() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.server == nil {
		panic(fmt.Sprintf("testutil: %s not started", u.name))
	}
	return u.server.URL
}

// Requests returns a copy of the recorded requests.
func (u *Upstream) Requests() []RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]RecordedRequest, len(u.requests))
	copy(out, u.requests)
	return out
}

// Last returns the most recent request, or false if none arrived.
func (u *Upstream) Last() (RecordedRequest, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return RecordedRequest{}, false
	}
	return u.requests[len(u.requests)-1], true
}
