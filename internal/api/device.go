package api

import (
	"encoding/json"
	"net/http"

	"github.com/sifis-home/wp6-mobile-application-api/internal/audit"
	"github.com/sifis-home/wp6-mobile-application-api/internal/device"
)

// busyReasonSavingConfig is reported while a configuration save holds the
// busy lock.
const busyReasonSavingConfig = "Saving device configuration."

// handleDeviceStatus returns a telemetry snapshot of the device.
func (s *Server) handleDeviceStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.status.Collect()
	if err != nil {
		s.logger.Error("collecting device status", "error", err)
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// handleGetConfiguration returns the device settings, or 404 if the device
// has not been configured yet.
func (s *Server) handleGetConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg := s.state.Config()
	if cfg == nil {
		writeNotFound(w, "This device has not been configured yet.")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleSetConfiguration replaces the device settings. The new settings
// are persisted before they become visible; a failed save leaves the old
// configuration in place.
func (s *Server) handleSetConfiguration(w http.ResponseWriter, r *http.Request) {
	var cfg device.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeBadRequest(w, "")
		return
	}

	guard, err := s.state.TryAcquire(busyReasonSavingConfig)
	if err != nil {
		s.recordAudit(r.Context(), &audit.Entry{
			Action:     audit.ActionSetConfig,
			Outcome:    audit.OutcomeBusy,
			Detail:     err.Error(),
			RemoteAddr: r.RemoteAddr,
		})
		writeServiceUnavailable(w, err.Error())
		return
	}
	defer guard.Release()

	if err := s.state.SetConfig(&cfg); err != nil {
		s.logger.Error("saving device configuration", "error", err)
		s.recordAudit(r.Context(), &audit.Entry{
			Action:     audit.ActionSetConfig,
			Outcome:    audit.OutcomeError,
			Detail:     err.Error(),
			RemoteAddr: r.RemoteAddr,
		})
		writeInternalError(w, err.Error())
		return
	}

	s.recordAudit(r.Context(), &audit.Entry{
		Action:     audit.ActionSetConfig,
		Outcome:    audit.OutcomeOK,
		RemoteAddr: r.RemoteAddr,
	})
	writeOk(w, "Configuration saved.")
}
