package component

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/poolfetch/logger"
)

type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
	stopCtx    context.Context
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopCtx = ctx
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "pool", Details: "max=5"}
}

func newTestRegistry() *Registry {
	return NewRegistry(logger.NewNop())
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRegistry()
	if err := r.Register(&mockComponent{name: "pool"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "pool"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestRegisterDescribable(t *testing.T) {
	r := newTestRegistry()
	if err := r.Register(&describedComponent{mockComponent{name: "pool"}}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if r.Get("pool") == nil {
		t.Fatal("expected registered component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}

	_ = r.Register(&mockComponent{name: "plain"})
	descs := r.Describe()
	if len(descs) != 1 || descs[0].Name != "pool" || descs[0].Type != "pool" {
		t.Errorf("expected one description named after the component, got %+v", descs)
	}
}

func TestStartAllOrder(t *testing.T) {
	r := newTestRegistry()
	order := []string{}
	_ = r.Register(&mockComponent{name: "telemetry", startOrder: &order})
	_ = r.Register(&mockComponent{name: "pool-lifecycle", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(order) != 2 || order[0] != "telemetry" || order[1] != "pool-lifecycle" {
		t.Errorf("expected start order [telemetry, pool-lifecycle], got %v", order)
	}

	// A second StartAll does not restart running components.
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("second StartAll failed: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("expected no restarts, got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "telemetry", startErr: fmt.Errorf("exporter unreachable")})

	if err := r.StartAll(context.Background()); err == nil {
		t.Error("expected error from StartAll")
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := newTestRegistry()
	order := []string{}
	for _, name := range []string{"telemetry", "pool-lifecycle", "client"} {
		_ = r.Register(&mockComponent{name: name, stopOrder: &order})
	}

	_ = r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 3 || order[0] != "client" || order[1] != "pool-lifecycle" || order[2] != "telemetry" {
		t.Errorf("expected reverse stop order, got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := newTestRegistry()
	order := []string{}
	_ = r.Register(&mockComponent{name: "pool", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllJoinsErrorsAndAppliesTimeout(t *testing.T) {
	r := newTestRegistry()
	r.SetStopTimeout(time.Second)
	a := &mockComponent{name: "a", stopErr: fmt.Errorf("a failed")}
	b := &mockComponent{name: "b", stopErr: fmt.Errorf("b failed")}
	_ = r.Register(a)
	_ = r.Register(b)
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	for _, want := range []string{"a failed", "b failed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
	if _, ok := a.stopCtx.Deadline(); !ok {
		t.Error("expected stop context to carry a deadline")
	}
}

func TestHealthAllAndOverall(t *testing.T) {
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := Overall(results); got != StatusDegraded {
		t.Errorf("expected degraded, got %s", got)
	}

	tests := []struct {
		name string
		in   []Health
		want HealthStatus
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Health{{Status: StatusHealthy}}, StatusHealthy},
		{"unhealthy wins", []Health{{Status: StatusDegraded}, {Status: StatusUnhealthy}}, StatusUnhealthy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overall(tc.in); got != tc.want {
				t.Errorf("Overall() = %s, want %s", got, tc.want)
			}
		})
	}
}
