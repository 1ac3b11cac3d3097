package httpclient

import (
	"net/http"
	"time"

	"github.com/kbukum/poolfetch/validation"
)

const (
	defaultServiceName = "poolfetch-fallback"
	defaultMethod      = http.MethodGet
)

// Config configures the HTTP client.
type Config struct {
	// ServiceName is sent as X-Service on fallback requests.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// DefaultMethod is used when a bare URL is fetched without a method.
	// Defaults to GET.
	DefaultMethod string `yaml:"default_method" mapstructure:"default_method" validate:"oneof=GET HEAD POST PUT PATCH DELETE OPTIONS"`

	// FallbackTimeout bounds a fallback request. Zero leaves it to the context.
	FallbackTimeout time.Duration `yaml:"fallback_timeout" mapstructure:"fallback_timeout" validate:"gte=0"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
	if c.DefaultMethod == "" {
		c.DefaultMethod = defaultMethod
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
