package api

import (
	"net/http"

	"github.com/sifis-home/wp6-mobile-application-api/internal/audit"
)

// Busy reasons reported while a command holds the busy lock.
const (
	busyReasonFactoryReset = "A factory reset is performed."
	busyReasonRestarting   = "The device is restarting."
	busyReasonShuttingDown = "The device is shutting down."
)

// factoryResetConfirm is the exact value the confirm query parameter must
// carry before a factory reset is performed.
const factoryResetConfirm = "I really want to perform a factory reset"

// handleFactoryReset deletes the device settings and runs the factory
// reset script. The confirm query parameter guards against accidents.
func (s *Server) handleFactoryReset(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != factoryResetConfirm {
		s.recordAudit(r.Context(), &audit.Entry{
			Action:     audit.ActionFactoryReset,
			Outcome:    audit.OutcomeRejected,
			Detail:     "confirm parameter not correct or set",
			RemoteAddr: r.RemoteAddr,
		})
		writeBadRequest(w, "The required confirm parameter was not correct or set.")
		return
	}

	guard, err := s.state.TryAcquire(busyReasonFactoryReset)
	if err != nil {
		s.recordAudit(r.Context(), &audit.Entry{
			Action:     audit.ActionFactoryReset,
			Outcome:    audit.OutcomeBusy,
			Detail:     err.Error(),
			RemoteAddr: r.RemoteAddr,
		})
		writeServiceUnavailable(w, err.Error())
		return
	}
	defer guard.Release()

	if err := s.state.SetConfig(nil); err != nil {
		s.logger.Error("removing device configuration", "error", err)
		s.recordAudit(r.Context(), &audit.Entry{
			Action:     audit.ActionFactoryReset,
			Outcome:    audit.OutcomeError,
			Detail:     err.Error(),
			RemoteAddr: r.RemoteAddr,
		})
		writeInternalError(w, err.Error())
		return
	}

	if err := s.scripts.Run(r.Context(), "factory_reset.sh"); err != nil {
		s.logger.Error("running factory reset script", "error", err)
		s.recordAudit(r.Context(), &audit.Entry{
			Action:     audit.ActionFactoryReset,
			Outcome:    audit.OutcomeError,
			Detail:     err.Error(),
			RemoteAddr: r.RemoteAddr,
		})
		writeInternalError(w, err.Error())
		return
	}

	s.recordAudit(r.Context(), &audit.Entry{
		Action:     audit.ActionFactoryReset,
		Outcome:    audit.OutcomeOK,
		RemoteAddr: r.RemoteAddr,
	})
	writeOk(w, "Factory reset complete.")
}

// handleRestart runs the restart script to reboot the device.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.runCommandScript(w, r, audit.ActionRestart, busyReasonRestarting,
		"restart.sh", "System will now restart.")
}

// handleShutdown runs the shutdown script to power off the device.
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	s.runCommandScript(w, r, audit.ActionShutdown, busyReasonShuttingDown,
		"shutdown.sh", "System will now power off.")
}

// runCommandScript takes the busy lock, runs a maintenance script, and
// reports the result. Restart and shutdown share this flow.
func (s *Server) runCommandScript(w http.ResponseWriter, r *http.Request, action, busyReason, script, okMessage string) {
	guard, err := s.state.TryAcquire(busyReason)
	if err != nil {
		s.recordAudit(r.Context(), &audit.Entry{
			Action:     action,
			Outcome:    audit.OutcomeBusy,
			Detail:     err.Error(),
			RemoteAddr: r.RemoteAddr,
		})
		writeServiceUnavailable(w, err.Error())
		return
	}
	defer guard.Release()

	if err := s.scripts.Run(r.Context(), script); err != nil {
		s.logger.Error("running command script", "script", script, "error", err)
		s.recordAudit(r.Context(), &audit.Entry{
			Action:     action,
			Outcome:    audit.OutcomeError,
			Detail:     err.Error(),
			RemoteAddr: r.RemoteAddr,
		})
		writeInternalError(w, err.Error())
		return
	}

	s.recordAudit(r.Context(), &audit.Entry{
		Action:     action,
		Outcome:    audit.OutcomeOK,
		RemoteAddr: r.RemoteAddr,
	})
	writeOk(w, okMessage)
}
