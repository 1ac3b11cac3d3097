package pool

import (
	"time"

	"github.com/kbukum/poolfetch/validation"
)

// Environment names that change pool sizing.
const envDevelopment = "development"

// Default pool settings.
const (
	DefaultDevMaxConnections     = 5
	DefaultMaxConnectionsPerHost = 15
	DefaultPipelining            = 6
	DefaultKeepAliveTimeout      = 60 * time.Second
	DefaultKeepAliveMaxTimeout   = 600 * time.Second
	DefaultHeadersTimeout        = 30 * time.Second
	DefaultBodyTimeout           = 60 * time.Second
	DefaultConnectTimeout        = 10 * time.Second
	DefaultMaxRedirections       = 3
	DefaultIdleTimeout           = 10 * time.Minute
	DefaultEvictionInterval      = 5 * time.Minute
)

// Config sizes every pool built by a Registry. It is copied into each pool
// and never mutated after the registry is created.
type Config struct {
	// MaxConnections caps open connections per origin.
	MaxConnections int `yaml:"max_connections" mapstructure:"max_connections" validate:"gt=0"`
	// Pipelining is the number of in-flight requests allowed per connection.
	Pipelining int `yaml:"pipelining" mapstructure:"pipelining" validate:"gte=1"`
	// KeepAliveTimeout is how long an idle connection stays open.
	KeepAliveTimeout time.Duration `yaml:"keep_alive_timeout" mapstructure:"keep_alive_timeout" validate:"gt=0"`
	// KeepAliveMaxTimeout bounds how long any idle connection is reused.
	KeepAliveMaxTimeout time.Duration `yaml:"keep_alive_max_timeout" mapstructure:"keep_alive_max_timeout" validate:"gtefield=KeepAliveTimeout"`
	// HeadersTimeout bounds the wait for response headers and for a free slot.
	HeadersTimeout time.Duration `yaml:"headers_timeout" mapstructure:"headers_timeout" validate:"gt=0"`
	// BodyTimeout bounds reading the full response body.
	BodyTimeout time.Duration `yaml:"body_timeout" mapstructure:"body_timeout" validate:"gt=0"`
	// ConnectTimeout bounds the TCP dial.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout" validate:"gt=0"`
	// MaxRedirections is the redirect limit. Nil means the default; zero
	// returns the redirect response itself.
	MaxRedirections *int `yaml:"max_redirections" mapstructure:"max_redirections" validate:"omitempty,gte=0"`
	// IdleTimeout is how long a pool may go unused before eviction.
	IdleTimeout time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gt=0"`
	// EvictionInterval is the period of the eviction sweep.
	EvictionInterval time.Duration `yaml:"eviction_interval" mapstructure:"eviction_interval" validate:"gt=0"`
}

// DefaultMaxConnections returns the per-origin connection cap for env.
func DefaultMaxConnections(env string) int {
	if env == envDevelopment {
		return DefaultDevMaxConnections
	}
	return DefaultMaxConnectionsPerHost
}

// DefaultConfig returns a Config sized for env.
func DefaultConfig(env string) Config {
	cfg := Config{MaxConnections: DefaultMaxConnections(env)}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxConnections == 0 {
		c.MaxConnections = DefaultMaxConnectionsPerHost
	}
	if c.Pipelining == 0 {
		c.Pipelining = DefaultPipelining
	}
	if c.KeepAliveTimeout == 0 {
		c.KeepAliveTimeout = DefaultKeepAliveTimeout
	}
	if c.KeepAliveMaxTimeout == 0 {
		c.KeepAliveMaxTimeout = DefaultKeepAliveMaxTimeout
	}
	if c.HeadersTimeout == 0 {
		c.HeadersTimeout = DefaultHeadersTimeout
	}
	if c.BodyTimeout == 0 {
		c.BodyTimeout = DefaultBodyTimeout
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.MaxRedirections == nil {
		c.MaxRedirections = Redirections(DefaultMaxRedirections)
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.EvictionInterval == 0 {
		c.EvictionInterval = DefaultEvictionInterval
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// RedirectLimit returns the effective redirect limit.
func (c *Config) RedirectLimit() int {
	if c.MaxRedirections == nil {
		return DefaultMaxRedirections
	}
	return *c.MaxRedirections
}

// Redirections returns n as a MaxRedirections value.
func Redirections(n int) *int {
	return &n
}

// MaxInFlight is the number of dispatches a pool admits at once.
func (c *Config) MaxInFlight() int {
	return c.MaxConnections * c.Pipelining
}
