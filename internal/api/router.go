package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check (no auth required)
	r.Get("/health", s.handleHealth)

	// API v1 routes, all behind the device authorization key
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.apiKeyAuthMiddleware)

		r.Route("/device", func(r chi.Router) {
			r.Get("/status", s.handleDeviceStatus)
			r.Get("/configuration", s.handleGetConfiguration)
			r.Put("/configuration", s.handleSetConfiguration)
			r.Get("/audit", s.handleAuditList)
		})

		r.Route("/command", func(r chi.Router) {
			r.Get("/factory_reset", s.handleFactoryReset)
			r.Get("/restart", s.handleRestart)
			r.Get("/shutdown", s.handleShutdown)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
