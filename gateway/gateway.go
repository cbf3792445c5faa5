// Package gateway triggers restarts of the OpenClaw gateway process via
// its CLI. When the CLI is not installed (containerized deployments) the
// restart is reported as simulated so the host can act on it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Logger is the minimal logging interface used by the gateway package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Default restarter configuration values.
const (
	DefaultBinary  = "openclaw"
	DefaultTimeout = 10 * time.Second
)

// RestartResult reports the outcome of a restart request.
type RestartResult struct {
	Restarted bool   `json:"restarted"`
	Simulated bool   `json:"simulated,omitempty"`
	DelayMS   int    `json:"delay_ms"`
	Note      string `json:"note,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Output    string `json:"output,omitempty"`
}

// Restarter invokes the gateway restart command.
type Restarter struct {
	binary  string
	timeout time.Duration
	logger  Logger

	// lookPath is swappable for tests.
	lookPath func(file string) (string, error)
}

// NewRestarter creates a restarter for the given gateway binary. An empty
// binary name uses the default.
func NewRestarter(binary string, logger Logger) *Restarter {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Restarter{
		binary:   binary,
		timeout:  DefaultTimeout,
		logger:   logger,
		lookPath: exec.LookPath,
	}
}

// Restart runs "<binary> gateway restart --delay <delayMS>" with a bounded
// wait. A missing binary yields a simulated result rather than an error; a
// command that never returns (the gateway killed it mid-restart) is
// reported as initiated.
func (r *Restarter) Restart(ctx context.Context, delayMS int, note string) (*RestartResult, error) {
	path, err := r.lookPath(r.binary)
	if err != nil {
		r.logger.Info("gateway binary not found, reporting simulated restart", "binary", r.binary)
		return &RestartResult{
			Restarted: true,
			Simulated: true,
			DelayMS:   delayMS,
			Note:      note,
			Status:    "restart request forwarded to host",
			Message:   "Restart command received. When running in container, restart must be performed on host.",
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "gateway", "restart", "--delay", strconv.Itoa(delayMS))
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// The command not returning is expected when the gateway
			// takes the process down with it.
			r.logger.Info("gateway restart command timed out, assuming restart in progress", "delay_ms", delayMS)
			return &RestartResult{
				Restarted: true,
				DelayMS:   delayMS,
				Note:      note,
				Status:    "restart initiated",
			}, nil
		}
		return nil, fmt.Errorf("gateway restart: %w", err)
	}

	r.logger.Info("gateway restart triggered", "delay_ms", delayMS)
	return &RestartResult{
		Restarted: true,
		DelayMS:   delayMS,
		Note:      note,
		Output:    strings.TrimSpace(string(out)),
	}, nil
}
