// Package component defines the lifecycle contract shared by long-lived
// pieces of a poolfetch process (the pool lifecycle controller, telemetry
// providers) and a Registry that starts them in order and stops them in
// reverse.
package component
