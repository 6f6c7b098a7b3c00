package util

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/markusressel/pid2go/internal/ui"
)

// SafeCmdExecution runs the given executable (after checking its permissions)
// and returns its trimmed stdout. The command is killed after timeout.
func SafeCmdExecution(ctx context.Context, executable string, args []string, timeout time.Duration) (string, error) {
	if _, err := CheckFilePermissionsForExecution(executable); err != nil {
		return "", fmt.Errorf("cannot execute %s: %w", executable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, executable, args...).Output()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		ui.Warning("Command timed out after %s: %s", timeout, executable)
		return "", ctx.Err()
	}
	if err != nil {
		ui.Warning("Command failed to execute: %s", executable)
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}
