package util

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/avern/bmcfand/internal/ui"
)

// RunCommand executes the given binary and returns its stdout and exit code.
// A non-zero exit code is not treated as an error here, some diagnostic tools
// (e.g. smartctl) use it to carry status information. The error return is
// reserved for "the command could not be run at all" situations.
func RunCommand(executable string, args []string, timeout time.Duration) (stdout string, exitCode int, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, executable, args...)
	out, err := cmd.Output()

	if ctx.Err() == context.DeadlineExceeded {
		ui.Warning("Command timed out: %s", executable)
		return "", -1, ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode(), nil
		}
		return "", -1, err
	}

	return string(out), 0, nil
}
