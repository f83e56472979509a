package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sifis-home/wp6-mobile-application-api/internal/audit"
	"github.com/sifis-home/wp6-mobile-application-api/internal/infrastructure/config"
	"github.com/sifis-home/wp6-mobile-application-api/internal/infrastructure/logging"
	"github.com/sifis-home/wp6-mobile-application-api/internal/scripts"
	"github.com/sifis-home/wp6-mobile-application-api/internal/state"
	"github.com/sifis-home/wp6-mobile-application-api/internal/status"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.ServerConfig
	Logger  *logging.Logger
	State   *state.DeviceState
	Status  status.Collector
	Scripts *scripts.Runner
	Audit   audit.Repository
	Version string
}

// Server is the HTTP API server of the smart device.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg     config.ServerConfig
	logger  *logging.Logger
	state   *state.DeviceState
	status  status.Collector
	scripts *scripts.Runner
	audit   audit.Repository
	version string
	server  *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, state, collectors)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.State == nil {
		return nil, fmt.Errorf("device state is required")
	}
	if deps.Status == nil {
		return nil, fmt.Errorf("status collector is required")
	}
	if deps.Scripts == nil {
		return nil, fmt.Errorf("script runner is required")
	}
	if deps.Audit == nil {
		return nil, fmt.Errorf("audit repository is required")
	}

	return &Server{
		cfg:     deps.Config,
		logger:  deps.Logger,
		state:   deps.State,
		status:  deps.Status,
		scripts: deps.Scripts,
		audit:   deps.Audit,
		version: deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// recordAudit writes an audit entry, logging instead of failing on error.
func (s *Server) recordAudit(ctx context.Context, entry *audit.Entry) {
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error("failed to record audit entry",
			"action", entry.Action,
			"outcome", entry.Outcome,
			"error", err,
		)
	}
}
