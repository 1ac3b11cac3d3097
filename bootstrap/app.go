package bootstrap

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/kbukum/poolfetch/component"
	"github.com/kbukum/poolfetch/httpclient"
	"github.com/kbukum/poolfetch/lifecycle"
	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/observability"
	"github.com/kbukum/poolfetch/pool"
)

const defaultGracefulTimeout = 15 * time.Second

// App owns the pool registry and everything built on it.
//
// Components start in registration order (telemetry, httpclient,
// pool-lifecycle) and stop in reverse, so pools are closed before telemetry
// is flushed.
type App struct {
	Name       string
	Version    string
	Settings   *Settings
	Logger     *logger.Logger
	Registry   *pool.Registry
	Client     *httpclient.Client
	Lifecycle  *lifecycle.Controller
	Components *component.Registry
	Summary    *Summary

	gracefulTimeout time.Duration
	summaryWriter   io.Writer

	onStart []Hook
	onReady []Hook
	onStop  []Hook

	stopOnce sync.Once
	stopErr  error
}

// NewApp builds an App from settings. It applies defaults and validates
// before creating anything.
func NewApp(settings *Settings, opts ...Option) (*App, error) {
	if settings == nil {
		settings = &Settings{}
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Name:            settings.Name,
		Version:         settings.Version,
		Settings:        settings,
		gracefulTimeout: defaultGracefulTimeout,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(settings.Logging, settings.Name)
		app.Logger = logger.GetGlobalLogger()
	}
	if o.summaryWriter != nil {
		app.summaryWriter = o.summaryWriter
	}

	poolLog := app.Logger.WithComponent("pool")
	clientLog := app.Logger.WithComponent("httpclient")
	lifecycleLog := app.Logger.WithComponent("lifecycle")
	logger.Register("pool", poolLog)
	logger.Register("httpclient", clientLog)
	logger.Register("lifecycle", lifecycleLog)
	logger.Register("telemetry", app.Logger.WithComponent("telemetry"))

	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	app.Registry, err = pool.NewRegistry(settings.Pool,
		pool.WithRegistryLogger(poolLog),
		pool.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}

	app.Client, err = httpclient.New(app.Registry, settings.Client,
		httpclient.WithLogger(clientLog),
		httpclient.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}

	trigger := o.trigger
	if trigger == nil && !o.noTrigger {
		trigger = lifecycle.SignalTrigger()
	}
	app.Lifecycle, err = lifecycle.New(app.Registry, settings.Lifecycle,
		lifecycle.WithTrigger(trigger),
		lifecycle.WithLogger(lifecycleLog),
		lifecycle.WithStopHooks(o.stopHooks...),
	)
	if err != nil {
		return nil, err
	}

	app.Components = component.NewRegistry(app.Logger)
	app.Components.SetStopTimeout(app.gracefulTimeout)
	for _, c := range []component.Component{
		observability.NewComponent(settings.Telemetry, observability.ResourceInfo{
			ServiceName:    settings.Name,
			ServiceVersion: settings.Version,
			Environment:    settings.Environment,
		}),
		httpclient.NewComponent(app.Client),
		app.Lifecycle,
	} {
		if err := app.Components.Register(c); err != nil {
			return nil, err
		}
	}

	app.Summary = NewSummary(settings.Name, settings.Version)
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// Start brings the App up: components, OnStart hooks, ready check, OnReady
// hooks and the startup summary.
func (a *App) Start(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary(ctx)
	return nil
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the App and blocks until the termination trigger has closed
// the pools or ctx is canceled, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	select {
	case <-a.Lifecycle.Done():
		a.Logger.Info("Connection pools closed, stopping application")
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
	}
	return a.Shutdown(context.Background())
}

// Shutdown runs OnStop hooks and stops every component within the graceful
// timeout. Only the first call does any work.
func (a *App) Shutdown(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.stopErr = a.stop(ctx)
	})
	return a.stopErr
}

func (a *App) stop(ctx context.Context) error {
	a.Logger.Info("Shutting down application", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}

// Health returns the registry health summary.
func (a *App) Health() pool.Health {
	return a.Registry.Health()
}

// DisplaySummary writes the startup summary.
func (a *App) DisplaySummary(ctx context.Context) {
	report := a.Summary.Build(a.Components.Describe(), a.Components.HealthAll(ctx))
	if a.summaryWriter != nil {
		_, _ = a.summaryWriter.Write([]byte(report.String()))
		return
	}
	report.Log(a.Logger)
}
