// Package status collects the system telemetry the mobile application
// shows on its device page: per-core CPU usage, memory and swap usage,
// disk space, uptime and load average.
//
// The collector reads the Linux proc filesystem and statfs; values are
// computed on demand and never stored. CPU usage is the busy fraction
// since the previous collection, so the first snapshot reports usage
// since boot.
//
// Handlers depend on the Collector interface so tests can substitute a
// fixed snapshot.
package status
