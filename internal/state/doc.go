// Package state holds the shared runtime state of the Mobile API server.
//
// DeviceState aggregates the immutable device identity, the mutable device
// configuration, and the busy flag that serialises state-mutating commands.
// Exactly one DeviceState exists per running service; handlers receive it
// by reference rather than reaching for ambient globals so each test can
// construct a fresh one.
//
// # Single flight
//
// The busy flag is deliberately coarse: a restart in progress blocks a
// factory reset and vice versa. Acquisition is not fair-queued — a
// concurrent attempt fails immediately with the reason already held, and
// the caller surfaces it or retries. There is no timeout: a guard is
// released only when its operation finishes and the caller's defer runs.
package state
