package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/kbukum/poolfetch/component"
	apperrors "github.com/kbukum/poolfetch/errors"
	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/pool"
)

// fakeTrigger records the stop callback so tests can fire it.
type fakeTrigger struct {
	mu       sync.Mutex
	stop     func()
	installs int
	released int
}

func (f *fakeTrigger) install(stop func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stop = stop
	f.installs++
	return func() {
		f.mu.Lock()
		f.released++
		f.mu.Unlock()
	}
}

func (f *fakeTrigger) fire() {
	f.mu.Lock()
	stop := f.stop
	f.mu.Unlock()
	stop()
}

func newTestRegistry(t *testing.T) *pool.Registry {
	t.Helper()
	reg, err := pool.NewRegistry(pool.Config{}, pool.WithRegistryLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return reg
}

func newTestController(t *testing.T, reg *pool.Registry, cfg Config, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	c, err := New(reg, cfg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNewRequiresRegistry(t *testing.T) {
	if _, err := New(nil, Config{}); !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	reg := newTestRegistry(t)
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative shutdown timeout", Config{ShutdownTimeout: -time.Second}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(reg, tc.cfg)
			if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestNewAcceptsAnyEnvironment(t *testing.T) {
	reg := newTestRegistry(t)
	for _, env := range []string{"prod", "local", "qa-eu"} {
		c, err := New(reg, Config{Environment: env, DevServer: true})
		if err != nil {
			t.Fatalf("New(%q) failed: %v", env, err)
		}
		if c.HostManaged() {
			t.Errorf("dev server outside development must stay self-managed, env=%q", env)
		}
	}
}

func TestSelfManagedStartAndTrigger(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reg := newTestRegistry(t)
	trig := &fakeTrigger{}
	hookCalls := 0
	c := newTestController(t, reg, Config{}, WithTrigger(trig.install), WithStopHooks(func(ctx context.Context) error {
		hookCalls++
		return nil
	}))

	if _, err := reg.GetPool("https://api.example.com"); err != nil {
		t.Fatalf("GetPool failed: %v", err)
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if trig.installs != 1 {
		t.Errorf("trigger installed %d times, want 1", trig.installs)
	}
	if !c.TriggerInstalled() {
		t.Error("expected trigger to be armed after Start")
	}
	if !reg.EvictionRunning() {
		t.Error("expected eviction schedule to run in self-managed mode")
	}
	if c.State() != pool.StateActive {
		t.Errorf("expected active, got %s", c.State())
	}

	trig.fire()

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Done was not closed after the trigger fired")
	}
	if c.State() != pool.StateClosed || reg.Len() != 0 {
		t.Errorf("expected closed empty registry, got %s with %d pools", c.State(), reg.Len())
	}
	if reg.EvictionRunning() {
		t.Error("eviction must stop on shutdown")
	}
	if hookCalls != 1 {
		t.Errorf("expected 1 hook call, got %d", hookCalls)
	}
	if trig.released != 1 {
		t.Errorf("expected trigger released once, got %d", trig.released)
	}
	if c.TriggerInstalled() {
		t.Error("trigger must be disarmed after shutdown")
	}
}

func TestHostManagedSkipsSchedulerAndTrigger(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"explicit host managed", Config{HostManaged: true, Environment: "production"}, true},
		{"dev server in development", Config{DevServer: true, Environment: "development"}, true},
		{"dev server in production", Config{DevServer: true, Environment: "production"}, false},
		{"default", Config{Environment: "development"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := newTestRegistry(t)
			trig := &fakeTrigger{}
			c := newTestController(t, reg, tc.cfg, WithTrigger(trig.install))

			if c.HostManaged() != tc.want {
				t.Fatalf("HostManaged() = %v, want %v", c.HostManaged(), tc.want)
			}
			if err := c.Start(context.Background()); err != nil {
				t.Fatalf("Start failed: %v", err)
			}
			installed := trig.installs == 1
			if installed == tc.want || reg.EvictionRunning() == tc.want {
				t.Errorf("host managed=%v but trigger installed=%v eviction=%v", tc.want, installed, reg.EvictionRunning())
			}
			if err := c.Shutdown(context.Background()); err != nil {
				t.Errorf("Shutdown failed: %v", err)
			}
		})
	}
}

func TestShutdownIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reg := newTestRegistry(t)
	hookErr := errors.New("flush failed")
	calls := 0
	c := newTestController(t, reg, Config{HostManaged: true}, WithStopHooks(
		func(ctx context.Context) error { calls++; return hookErr },
		func(ctx context.Context) error { calls++; return nil },
	))

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Shutdown(context.Background())
		}(i)
	}
	wg.Wait()

	if calls != 2 {
		t.Errorf("expected hooks to run once each, got %d calls", calls)
	}
	for i, err := range errs {
		if !errors.Is(err, hookErr) {
			t.Errorf("call %d: expected hook error, got %v", i, err)
		}
	}
	if !strings.Contains(errs[0].Error(), "stop hook 0") {
		t.Errorf("unexpected error text %q", errs[0].Error())
	}
	if reg.State() != pool.StateClosed {
		t.Errorf("expected closed registry, got %s", reg.State())
	}
}

func TestStartAfterShutdown(t *testing.T) {
	reg := newTestRegistry(t)
	c := newTestController(t, reg, Config{})
	_ = c.Shutdown(context.Background())

	if err := c.Start(context.Background()); !apperrors.IsCode(err, apperrors.ErrCodePoolClosed) {
		t.Errorf("expected POOL_CLOSED, got %v", err)
	}
}

func TestTriggerFiringDuringInstall(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reg := newTestRegistry(t)
	released := false
	immediate := func(stop func()) func() {
		stop()
		return func() { released = true }
	}
	c := newTestController(t, reg, Config{}, WithTrigger(immediate))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-c.Done()
	if !released {
		t.Error("a trigger installed after shutdown must be released")
	}
}

func TestComponentInterface(t *testing.T) {
	reg := newTestRegistry(t)
	c := newTestController(t, reg, Config{HostManaged: true})
	ctx := context.Background()

	if c.Name() != "pool-lifecycle" {
		t.Errorf("unexpected name %q", c.Name())
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy || h.Message != "active" {
		t.Errorf("unexpected health %+v", h)
	}
	if d := c.Describe(); d.Details != "mode=host-managed" {
		t.Errorf("unexpected description %+v", d)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy || h.Message != "closed" {
		t.Errorf("unexpected health after stop %+v", h)
	}

	self := newTestController(t, newTestRegistry(t), Config{})
	if d := self.Describe(); !strings.HasPrefix(d.Details, "mode=self-managed eviction=5m0s") {
		t.Errorf("unexpected description %+v", d)
	}
}
