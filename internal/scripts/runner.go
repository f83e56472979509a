package scripts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrBadScriptName indicates a script name containing path separators or
// other components that could escape the scripts directory.
var ErrBadScriptName = errors.New("scripts: script name must be a plain file name")

// defaultTimeout bounds script execution when the caller's context has no
// earlier deadline.
const defaultTimeout = 60 * time.Second

// Logger defines the logging interface for the runner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Runner executes maintenance scripts from a fixed directory.
//
// Thread Safety:
//   - Run is safe for concurrent use; the runner holds no mutable state.
type Runner struct {
	dir    string
	logger Logger
}

// NewRunner creates a runner for scripts under dir.
//
// Parameters:
//   - dir: Directory containing the maintenance scripts
//   - logger: Logger for script output, or nil for no logging
func NewRunner(dir string, logger Logger) *Runner {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Runner{dir: dir, logger: logger}
}

// Dir returns the scripts directory.
func (r *Runner) Dir() string {
	return r.dir
}

// Run executes the named script and waits for it to finish.
//
// The script's stdout is logged at info level when non-empty. A non-zero
// exit status is returned as an error carrying the script's stderr.
//
// Parameters:
//   - ctx: Context for cancellation; a default timeout applies when the
//     context has no deadline
//   - name: Plain file name of the script, such as "restart.sh"
//
// Returns:
//   - error: ErrBadScriptName, a start failure, or a non-zero exit
func (r *Runner) Run(ctx context.Context, name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrBadScriptName, name)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	script := filepath.Join(r.dir, name)
	r.logger.Info("running script", "script", script)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if out := strings.TrimSpace(stdout.String()); out != "" {
		r.logger.Info("script output", "script", name, "output", out)
	}

	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("scripts: running %s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("scripts: running %s: %w", name, err)
	}

	return nil
}
