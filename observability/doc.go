// Package observability wires OpenTelemetry tracing and metrics.
//
// InitTracer and InitMeter install global providers backed by OTLP/HTTP
// exporters. Metrics holds the pool and dispatch instruments; a nil
// *Metrics is valid and records nothing, so callers never need to guard.
//
//	m, _ := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
//	m.RecordDispatch(ctx, origin, "GET", observability.OutcomeSuccess, time.Since(start))
package observability
