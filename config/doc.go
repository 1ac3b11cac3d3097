// Package config loads typed configuration from a YAML file, a .env file and
// the process environment using viper and godotenv.
//
// Environment variables are bound under every nesting variant of their name,
// so POOL_MAX_CONNECTIONS populates pool.max_connections without an explicit
// binding. Aliases cover keys whose variable name differs from the key:
//
//	var s Settings
//	err := config.LoadConfig("poolfetch", &s,
//	    config.WithEnvAlias("environment", "ENVIRONMENT", "NODE_ENV"))
//
// Precedence, highest first: process environment (including values loaded
// from .env), aliases, config file, defaults.
package config
