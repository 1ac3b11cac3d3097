// Package validation validates configuration and request input.
//
// Struct tag validation runs through go-playground/validator and reports
// field names using their mapstructure keys, so messages match the config
// file a user edited:
//
//	type Config struct {
//	    MaxConnections int `mapstructure:"max_connections" validate:"gt=0"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors fluently:
//
//	v := validation.New()
//	v.OneOf("environment", env, envs).PositiveDuration("shutdown_timeout", d)
//	err := v.Err()
package validation
