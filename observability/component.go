package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/poolfetch/component"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component owns the tracer and meter providers. When disabled it starts
// and stops without side effects.
type Component struct {
	cfg  Config
	info ResourceInfo

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewComponent creates a telemetry component.
func NewComponent(cfg Config, info ResourceInfo) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, info: info}
}

// Name implements component.Component.
func (c *Component) Name() string { return "telemetry" }

// Start installs the providers when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tp != nil {
		return nil
	}

	tp, err := InitTracer(ctx, c.cfg, c.info)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg, c.info)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
		c.mp = nil
	}
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
		c.tp = nil
	}
	return errors.Join(errs...)
}

// Health reports whether export is active.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	running := c.tp != nil
	c.mu.Unlock()

	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case !c.cfg.Enabled:
		h.Message = "disabled"
	case !running:
		h.Status = component.StatusDegraded
		h.Message = "not started"
	}
	return h
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp=%s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: c.Name(), Type: "telemetry", Details: details}
}
