// Package logger provides structured logging on top of zerolog.
//
// Loggers are created from a Config (level, format, output) and carry a
// service name. Component-scoped loggers are obtained with Get or
// WithComponent and write fields as plain maps:
//
//	log := logger.Get("pool-registry")
//	log.Debug("created pool", logger.Fields(logger.FieldOrigin, origin))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stdout"
package logger
