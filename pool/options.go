package pool

import (
	"time"

	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/observability"
)

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger used by a pool.
func WithPoolLogger(l *logger.Logger) PoolOption {
	return func(p *Pool) { p.log = l }
}

// WithPoolClock sets the time source used for pool age and keep-alive recycling.
func WithPoolClock(now func() time.Time) PoolOption {
	return func(p *Pool) { p.now = now }
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used by the registry and its pools.
func WithRegistryLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// WithMetrics records pool lifecycle metrics.
func WithMetrics(m *observability.Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// WithClock sets the time source used for idle tracking and health.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithPoolOptions applies opts to every pool the registry creates.
func WithPoolOptions(opts ...PoolOption) RegistryOption {
	return func(r *Registry) { r.poolOpts = append(r.poolOpts, opts...) }
}
