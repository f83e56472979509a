// SIFIS-Home Smart Device Mobile API server.
//
// This is the main entry point for the mobile application API that runs
// on every SIFIS-Home smart device. It exposes the REST endpoints the
// mobile application uses to check device status, manage the device
// configuration, and issue maintenance commands.
//
// The device must be provisioned with create-device-info before this
// server can start: it refuses to run without a device information file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sifis-home/wp6-mobile-application-api/internal/api"
	"github.com/sifis-home/wp6-mobile-application-api/internal/audit"
	"github.com/sifis-home/wp6-mobile-application-api/internal/device"
	"github.com/sifis-home/wp6-mobile-application-api/internal/infrastructure/config"
	"github.com/sifis-home/wp6-mobile-application-api/internal/infrastructure/database"
	"github.com/sifis-home/wp6-mobile-application-api/internal/infrastructure/logging"
	"github.com/sifis-home/wp6-mobile-application-api/internal/scripts"
	"github.com/sifis-home/wp6-mobile-application-api/internal/state"
	"github.com/sifis-home/wp6-mobile-application-api/internal/status"
	"github.com/sifis-home/wp6-mobile-application-api/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// auditDatabaseFile is the audit database file name inside the SIFIS-Home
// directory, used when the configuration does not name an explicit path.
const auditDatabaseFile = "audit.db"

func main() {
	// Cancel the root context on interrupt signals (Ctrl+C, SIGTERM)
	// so every component shuts down through the same path.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting mobile API server",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if configPath != "" {
		log.Info("configuration loaded", "path", configPath)
	} else {
		log.Info("no configuration file, using defaults")
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Load the device identity and any existing configuration
	home := device.NewHomeWithPath(cfg.Home.Path)
	deviceState, err := state.Load(home)
	if err != nil {
		if errors.Is(err, device.ErrInfoNotFound) {
			return fmt.Errorf("device is not provisioned: %w (run create-device-info first)", err)
		}
		return fmt.Errorf("loading device state: %w", err)
	}
	log.Info("device information loaded",
		"product_name", deviceState.Info().ProductName,
		"uuid", deviceState.Info().UUID,
		"configured", deviceState.Config() != nil,
	)

	// Open the audit database
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(home.Path(), auditDatabaseFile)
	}
	db, err := database.Open(database.Config{
		Path:        dbPath,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", dbPath)

	if migrateErr := db.Migrate(ctx, migrations.Files()); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	auditRepo := audit.NewSQLiteRepository(db.DB)
	runner := scripts.NewRunner(cfg.Scripts.Path, log.With("component", "scripts"))
	log.Info("maintenance scripts directory", "path", runner.Dir())

	server, err := api.New(api.Deps{
		Config:  cfg.Server,
		Logger:  log,
		State:   deviceState,
		Status:  status.NewProcCollector(),
		Scripts: runner,
		Audit:   auditRepo,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()
	log.Info("API server listening", "address", cfg.ListenAddr())

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drains in-flight requests)
	// 2. Database

	log.Info("mobile API server stopped")
	return nil
}

// getConfigPath returns the configuration file path.
//
// The MOBILE_API_CONFIG environment variable takes precedence. Without
// it, configs/config.yaml is used when present; otherwise the server
// runs on built-in defaults and environment overrides alone.
func getConfigPath() string {
	if path := os.Getenv("MOBILE_API_CONFIG"); path != "" {
		return path
	}
	const defaultConfigPath = "configs/config.yaml"
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}
