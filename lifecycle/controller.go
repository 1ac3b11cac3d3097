package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/poolfetch/component"
	apperrors "github.com/kbukum/poolfetch/errors"
	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/pool"
)

// Hook runs after every pool is closed during shutdown.
type Hook func(ctx context.Context) error

// compile-time assertions
var _ component.Component = (*Controller)(nil)
var _ component.Describable = (*Controller)(nil)

// Controller drives a registry through Active, ShuttingDown and Closed. The
// registry's state is the single source of truth.
type Controller struct {
	registry *pool.Registry
	cfg      Config
	log      *logger.Logger
	trigger  Trigger
	hooks    []Hook

	startOnce    sync.Once
	shutdownOnce sync.Once
	done         chan struct{}

	mu          sync.Mutex
	stopping    bool
	release     func()
	shutdownErr error
}

// Option configures a Controller.
type Option func(*Controller)

// WithTrigger installs trigger on Start in self-managed mode.
func WithTrigger(t Trigger) Option {
	return func(c *Controller) { c.trigger = t }
}

// WithLogger sets the controller logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithStopHooks adds hooks that run after pools are closed.
func WithStopHooks(hooks ...Hook) Option {
	return func(c *Controller) { c.hooks = append(c.hooks, hooks...) }
}

// New creates a controller for registry.
func New(registry *pool.Registry, cfg Config, opts ...Option) (*Controller, error) {
	if registry == nil {
		return nil, apperrors.InvalidInput("registry", "pool registry is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		registry: registry,
		cfg:      cfg,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("lifecycle")
	}
	return c, nil
}

// Name returns the component name.
func (c *Controller) Name() string { return "pool-lifecycle" }

// HostManaged reports whether the host owns pool lifetime.
func (c *Controller) HostManaged() bool { return c.cfg.IsHostManaged() }

// State returns the registry state.
func (c *Controller) State() pool.State { return c.registry.State() }

// TriggerInstalled reports whether a termination trigger is currently armed.
func (c *Controller) TriggerInstalled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.release != nil
}

// Done is closed once Shutdown has finished.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Start begins idle eviction and installs the termination trigger, once.
// In host-managed mode it does neither.
func (c *Controller) Start(_ context.Context) error {
	if c.registry.State() != pool.StateActive {
		return pool.ErrRegistryClosed
	}

	c.startOnce.Do(func() {
		if c.cfg.IsHostManaged() {
			c.log.Info("Host-managed mode, skipping eviction schedule and termination trigger")
			return
		}

		c.registry.StartEviction()
		if c.trigger != nil {
			release := c.trigger(c.onTrigger)
			c.mu.Lock()
			if c.stopping {
				c.mu.Unlock()
				release()
			} else {
				c.release = release
				c.mu.Unlock()
			}
		}
		c.log.Debug("Pool lifecycle started", logger.Fields(
			"eviction_interval", c.registry.Config().EvictionInterval.String(),
		))
	})
	return nil
}

func (c *Controller) onTrigger() {
	c.log.Info("Termination requested, closing connection pools")
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
	defer cancel()
	if err := c.Shutdown(ctx); err != nil {
		c.log.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
	}
}

// Shutdown uninstalls the trigger, closes every pool and runs stop hooks.
// Later calls wait for the first to finish and return its result.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.shutdownOnce.Do(func() {
		c.mu.Lock()
		c.stopping = true
		release := c.release
		c.release = nil
		c.mu.Unlock()
		if release != nil {
			release()
		}

		c.registry.CloseAll(ctx)

		var errs []error
		for i, h := range c.hooks {
			if err := h(ctx); err != nil {
				errs = append(errs, fmt.Errorf("stop hook %d: %w", i, err))
			}
		}

		c.mu.Lock()
		c.shutdownErr = errors.Join(errs...)
		c.mu.Unlock()
		close(c.done)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutdownErr
}

// Stop implements component.Component.
func (c *Controller) Stop(ctx context.Context) error {
	return c.Shutdown(ctx)
}

// Health reports the lifecycle state.
func (c *Controller) Health(_ context.Context) component.Health {
	state := c.registry.State()
	status := component.StatusHealthy
	switch state {
	case pool.StateShuttingDown:
		status = component.StatusDegraded
	case pool.StateClosed:
		status = component.StatusUnhealthy
	}
	return component.Health{
		Name:    c.Name(),
		Status:  status,
		Message: state.String(),
		Details: map[string]any{
			"host_managed":     c.cfg.IsHostManaged(),
			"eviction_running": c.registry.EvictionRunning(),
			"trigger":          c.TriggerInstalled(),
		},
	}
}

// Describe returns component description for the bootstrap summary.
func (c *Controller) Describe() component.Description {
	details := "mode=host-managed"
	if !c.cfg.IsHostManaged() {
		details = fmt.Sprintf("mode=self-managed eviction=%s idle=%s",
			c.registry.Config().EvictionInterval, c.registry.Config().IdleTimeout)
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "lifecycle",
		Details: details,
	}
}
