package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
)

// Fleet runs several named upstreams, one origin each, for tests that span
// origins. Upstreams stop in reverse order when the test ends.
type Fleet struct {
	t testing.TB

	mu        sync.Mutex
	order     []string
	upstreams map[string]*Upstream
}

// NewFleet creates an empty fleet bound to t.
func NewFleet(t testing.TB) *Fleet {
	f := &Fleet{t: t, upstreams: make(map[string]*Upstream)}
	t.Cleanup(func() {
		if err := f.stopAll(); err != nil {
			t.Errorf("fleet cleanup: %v", err)
		}
	})
	return f
}

// Add starts an upstream serving handler under name.
func (f *Fleet) Add(name string, handler http.Handler) *Upstream {
	f.t.Helper()
	u := NewUpstream(handler)
	u.name = name
	if err := u.Start(context.Background()); err != nil {
		f.t.Fatalf("failed to start upstream %s: %v", name, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.upstreams[name]; dup {
		_ = u.Stop(context.Background())
		f.t.Fatalf("upstream %s already in fleet", name)
	}
	f.upstreams[name] = u
	f.order = append(f.order, name)
	return u
}

// Get returns the named upstream or nil.
func (f *Fleet) Get(name string) *Upstream {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upstreams[name]
}

// Origins returns every upstream URL in insertion order.
func (f *Fleet) Origins() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.upstreams[name].URL())
	}
	return out
}

// ResetAll clears every upstream's recorded requests.
func (f *Fleet) ResetAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range f.order {
		_ = f.upstreams[name].Reset(context.Background())
	}
}

func (f *Fleet) stopAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for i := len(f.order) - 1; i >= 0; i-- {
		name := f.order[i]
		if err := f.upstreams[name].Stop(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
