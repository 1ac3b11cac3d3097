package bootstrap

import (
	"errors"
	"fmt"

	"github.com/kbukum/poolfetch/config"
	"github.com/kbukum/poolfetch/httpclient"
	"github.com/kbukum/poolfetch/lifecycle"
	"github.com/kbukum/poolfetch/observability"
	"github.com/kbukum/poolfetch/pool"
	"github.com/kbukum/poolfetch/util"
	"github.com/kbukum/poolfetch/version"
)

// DefaultServiceName names the service when no configuration sets one.
const DefaultServiceName = "poolfetch"

// Settings is the full application configuration.
//
//	name: poolfetch
//	environment: production
//	pool:
//	  max_connections: 15
//	  idle_timeout: 10m
//	client:
//	  service_name: catalog-api
//	lifecycle:
//	  host_managed: false
type Settings struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pool      pool.Config          `yaml:"pool" mapstructure:"pool"`
	Client    httpclient.Config    `yaml:"client" mapstructure:"client"`
	Lifecycle lifecycle.Config     `yaml:"lifecycle" mapstructure:"lifecycle"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// GetServiceConfig returns the embedded service configuration.
func (s *Settings) GetServiceConfig() *config.ServiceConfig {
	return &s.ServiceConfig
}

// ApplyDefaults fills zero values. The pool connection cap depends on the
// environment, so the service defaults are applied first.
func (s *Settings) ApplyDefaults() {
	s.Name = util.Coalesce(s.Name, DefaultServiceName)
	if s.Version == "" {
		s.Version = version.Get().Short()
	}
	s.ServiceConfig.ApplyDefaults()

	if s.Pool.MaxConnections == 0 {
		s.Pool.MaxConnections = pool.DefaultMaxConnections(s.Environment)
	}
	s.Pool.ApplyDefaults()
	s.Client.ApplyDefaults()
	s.Lifecycle.Environment = s.Environment
	s.Lifecycle.ApplyDefaults()
	s.Telemetry.ApplyDefaults()
}

// Validate checks every section and reports all failures together.
func (s *Settings) Validate() error {
	var errs []error
	if err := s.ServiceConfig.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Pool.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pool: %w", err))
	}
	if err := s.Client.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("client: %w", err))
	}
	if err := s.Lifecycle.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("lifecycle: %w", err))
	}
	if err := s.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}
	return errors.Join(errs...)
}

// LoadSettings reads Settings from config files and the environment, then
// applies defaults and validates. ENVIRONMENT falls back to NODE_ENV.
func LoadSettings(opts ...config.LoaderOption) (*Settings, error) {
	base := []config.LoaderOption{
		config.WithEnvAlias("environment", "ENVIRONMENT", "NODE_ENV"),
		config.WithEnvAlias("name", "SERVICE_NAME"),
		config.WithEnvAlias("logging.level", "LOGGING_LEVEL", "LOG_LEVEL"),
		config.WithDefault("name", DefaultServiceName),
	}

	var s Settings
	if err := config.LoadConfig(DefaultServiceName, &s, append(base, opts...)...); err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &s, nil
}
