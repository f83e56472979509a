package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sifis-home/wp6-mobile-application-api/internal/device"
)

// ErrBusy is the sentinel matched by errors.Is for any BusyError.
var ErrBusy = errors.New("state: device is busy")

// BusyError reports a failed busy-flag acquisition. Reason is the message
// of the operation already in progress, verbatim; the API layer puts it
// unmodified into the 503 response body.
type BusyError struct {
	Reason string
}

func (e *BusyError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrBusy) match.
func (e *BusyError) Is(target error) bool {
	return target == ErrBusy
}

// ConfigStore persists the device configuration. device.Home implements
// it; tests substitute a failing store to exercise the atomicity rules.
type ConfigStore interface {
	SaveConfig(cfg *device.Config) error
	RemoveConfig() error
}

// DeviceState is the shared state of one running Mobile API service.
//
// The busy flag and the configuration snapshot are guarded by separate
// locks, so configuration reads stay available while a command holds the
// busy flag. All methods are safe for concurrent use.
type DeviceState struct {
	info  *device.Info
	store ConfigStore

	busyMu     sync.Mutex
	busyReason string

	configMu sync.RWMutex
	config   *device.Config
}

// New creates the state for a loaded device identity.
//
// The initial configuration may be nil (device not configured yet); the
// store is consulted for every later SetConfig.
func New(info *device.Info, initial *device.Config, store ConfigStore) *DeviceState {
	s := &DeviceState{
		info:  info,
		store: store,
	}
	if initial != nil {
		cfg := *initial
		s.config = &cfg
	}
	return s
}

// Load builds the state from a Home: the identity is required, the
// configuration is optional.
func Load(home *device.Home) (*DeviceState, error) {
	info, err := home.LoadInfo()
	if err != nil {
		return nil, err
	}
	// A missing or unreadable config just means "not configured yet".
	cfg, err := home.LoadConfig()
	if err != nil {
		cfg = nil
	}
	return New(info, cfg, home), nil
}

// Info returns the immutable device identity.
func (s *DeviceState) Info() *device.Info {
	return s.info
}

// Busy returns the reason of the operation in progress, or "" when the
// device is free.
func (s *DeviceState) Busy() string {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	return s.busyReason
}

// TryAcquire attempts to take the busy flag for an operation.
//
// On success the returned guard holds the flag; the caller must release
// it on every exit path:
//
//	guard, err := state.TryAcquire("The device is restarting.")
//	if err != nil { ... surface the BusyError ... }
//	defer guard.Release()
//
// If the flag is already held, TryAcquire fails immediately with a
// BusyError carrying the existing reason; it never waits and never
// changes state. The check-and-set holds the mutex only for the flag
// update itself.
func (s *DeviceState) TryAcquire(reason string) (*BusyGuard, error) {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	if s.busyReason != "" {
		return nil, &BusyError{Reason: s.busyReason}
	}
	s.busyReason = reason
	return &BusyGuard{state: s}, nil
}

// clearBusy returns the flag to free unconditionally.
func (s *DeviceState) clearBusy() {
	s.busyMu.Lock()
	s.busyReason = ""
	s.busyMu.Unlock()
}

// Config returns a copy of the current configuration snapshot, or nil
// when the device is not configured. The copy never aliases the guarded
// snapshot, so callers cannot hold data past the read lock.
func (s *DeviceState) Config() *device.Config {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	if s.config == nil {
		return nil
	}
	cfg := *s.config
	return &cfg
}

// SetConfig persists a new configuration and swaps the in-memory
// snapshot. A nil cfg deletes the persisted configuration (factory
// reset).
//
// Persistence happens first: if the store fails, the snapshot is left
// untouched so memory never disagrees with disk, and the error is
// returned for the caller to surface as an internal error.
func (s *DeviceState) SetConfig(cfg *device.Config) error {
	s.configMu.Lock()
	defer s.configMu.Unlock()

	if cfg == nil {
		if err := s.store.RemoveConfig(); err != nil {
			return fmt.Errorf("state: removing configuration: %w", err)
		}
		s.config = nil
		return nil
	}

	saved := *cfg
	if err := s.store.SaveConfig(&saved); err != nil {
		return fmt.Errorf("state: saving configuration: %w", err)
	}
	s.config = &saved
	return nil
}

// BusyGuard holds the busy flag for one operation.
//
// Release is idempotent, so it is safe to defer it and also release
// early. There is no reference counting: one guard exists per
// acquisition by construction.
type BusyGuard struct {
	state *DeviceState
	once  sync.Once
}

// Release frees the busy flag. It must run on every exit path, including
// error returns and panics — use defer immediately after TryAcquire.
func (g *BusyGuard) Release() {
	g.once.Do(func() {
		g.state.clearBusy()
	})
}
