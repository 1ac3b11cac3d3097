// Package lifecycle owns the process-level lifetime of a pool registry:
// the periodic idle-eviction schedule and a one-shot shutdown that closes
// every pool.
//
// In self-managed mode Start begins eviction and installs a termination
// Trigger. In host-managed mode (an embedding server or a development
// server that owns the process) both are skipped and the host calls
// Shutdown itself.
package lifecycle
