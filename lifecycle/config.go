package lifecycle

import (
	"time"

	"github.com/kbukum/poolfetch/validation"
)

const (
	envDevelopment         = "development"
	defaultShutdownTimeout = 10 * time.Second
)

// Config controls who owns pool lifetime.
type Config struct {
	// HostManaged disables the eviction schedule and termination trigger.
	HostManaged bool `yaml:"host_managed" mapstructure:"host_managed"`
	// DevServer marks a development server process. It implies host-managed
	// mode in the development environment only.
	DevServer bool `yaml:"dev_server" mapstructure:"dev_server"`
	// Environment is the deployment environment, usually copied from the
	// service config.
	Environment string `yaml:"-" mapstructure:"-"`
	// ShutdownTimeout bounds a shutdown started by the trigger.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
}

// IsHostManaged reports whether the host owns pool lifetime.
func (c *Config) IsHostManaged() bool {
	return c.HostManaged || (c.DevServer && c.Environment == envDevelopment)
}

// Validate checks the shutdown bound. Any environment name is accepted;
// only development enables dev-server detection.
func (c *Config) Validate() error {
	return validation.New().
		PositiveDuration("shutdown_timeout", c.ShutdownTimeout).
		Err()
}
