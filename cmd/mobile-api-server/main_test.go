package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sifis-home/wp6-mobile-application-api/internal/device"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("MOBILE_API_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_UnprovisionedDevice verifies run refuses to start without a
// device information file.
func TestRun_UnprovisionedDevice(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := fmt.Sprintf(`
home:
  path: %q

server:
  host: "127.0.0.1"
  port: 8000

scripts:
  path: %q

logging:
  level: error
  format: text
  output: stderr
`, tmpDir, tmpDir)
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("MOBILE_API_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail without a device information file")
	}
	if !errors.Is(err, device.ErrInfoNotFound) {
		t.Errorf("expected device.ErrInfoNotFound, got: %v", err)
	}
}

// TestGetConfigPath verifies the environment variable takes precedence.
func TestGetConfigPath(t *testing.T) {
	t.Setenv("MOBILE_API_CONFIG", "/etc/mobile-api/config.yaml")

	if got := getConfigPath(); got != "/etc/mobile-api/config.yaml" {
		t.Errorf("getConfigPath() = %q, want env override", got)
	}
}
