package python

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// runCmd executes a command in the given directory and returns its
// stdout. Stderr is captured separately and folded into the error
// message on failure, so callers get a useful diagnostic without
// having to inspect streams themselves.
//
// Context cancellation kills the child process.
func runCmd(ctx context.Context, dir, program string, args ...string) (string, error) {
	// #nosec G204 — program and args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("%s %s failed", program, strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", fmt.Errorf("%s: %w", message, err)
	}

	return stdout.String(), nil
}

// runCmdStreaming executes a command with stdout/stderr wired to the
// given writers instead of captured. Used for long operations whose
// output the operator wants to watch live (pip install, the sync
// program itself).
func runCmdStreaming(ctx context.Context, dir, program string, stdout, stderr io.Writer, args ...string) error {
	// #nosec G204 — program and args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %w", program, strings.Join(args, " "), err)
	}
	return nil
}
