package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/poolfetch/lifecycle"
	"github.com/kbukum/poolfetch/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	trigger         lifecycle.Trigger
	noTrigger       bool
	stopHooks       []lifecycle.Hook
	summaryWriter   io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from Settings.Logging.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithTrigger replaces the OS signal trigger used in self-managed mode.
// A nil trigger disables it.
func WithTrigger(t lifecycle.Trigger) Option {
	return func(o *appOptions) {
		o.trigger = t
		o.noTrigger = t == nil
	}
}

// WithoutTrigger leaves termination handling to the host. A later
// WithTrigger overrides it.
func WithoutTrigger() Option {
	return func(o *appOptions) {
		o.trigger = nil
		o.noTrigger = true
	}
}

// WithStopHooks adds hooks that run once every pool has been closed.
func WithStopHooks(hooks ...lifecycle.Hook) Option {
	return func(o *appOptions) {
		o.stopHooks = append(o.stopHooks, hooks...)
	}
}

// WithSummaryWriter prints the startup summary to w instead of logging it.
func WithSummaryWriter(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryWriter = w
	}
}
