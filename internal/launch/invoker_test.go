package launch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// fakeInterpreter writes an executable shell script that stands in for
// the venv's python binary. The script receives the entry point as $1.
func fakeInterpreter(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "python")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

// entryPoint creates a placeholder main.py and returns its path.
func entryPoint(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.py")
	require.NoError(t, os.WriteFile(path, []byte("# sync entry point\n"), 0644))
	return path
}

// TestRunSuccess verifies a zero exit status, output passthrough, and
// that the script path reaches the interpreter.
func TestRunSuccess(t *testing.T) {
	var out strings.Builder
	inv := &Invoker{
		Python: fakeInterpreter(t, `echo "running $1"`),
		Script: entryPoint(t),
		Dir:    t.TempDir(),
		Stdout: &out,
		Stderr: &out,
	}

	require.NoError(t, inv.Run(context.Background()))
	assert.Contains(t, out.String(), "running "+inv.Script)
}

// TestRunNonZeroExit verifies a failing sync program maps to the sync
// step's error with the exit status in the detail.
func TestRunNonZeroExit(t *testing.T) {
	var out strings.Builder
	inv := &Invoker{
		Python: fakeInterpreter(t, `exit 3`),
		Script: entryPoint(t),
		Dir:    t.TempDir(),
		Stdout: &out,
		Stderr: &out,
	}

	err := inv.Run(context.Background())
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.StepSync, cliErr.Step)
	assert.Contains(t, err.Error(), "status 3")
}

// TestRunMissingEntryPoint verifies the invoker fails before spawning
// anything when the entry point file does not exist.
func TestRunMissingEntryPoint(t *testing.T) {
	inv := &Invoker{
		Python: fakeInterpreter(t, `exit 0`),
		Script: filepath.Join(t.TempDir(), "main.py"),
		Dir:    t.TempDir(),
	}

	err := inv.Run(context.Background())
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.StepSync, cliErr.Step)
	assert.Contains(t, err.Error(), "entry point not found")
}

// TestRunEnvPassthrough verifies extra env variables reach the child.
func TestRunEnvPassthrough(t *testing.T) {
	var out strings.Builder
	inv := &Invoker{
		Python: fakeInterpreter(t, `echo "debug=$SYNC_DEBUG"`),
		Script: entryPoint(t),
		Dir:    t.TempDir(),
		Env:    map[string]string{"SYNC_DEBUG": "1"},
		Stdout: &out,
		Stderr: &out,
	}

	require.NoError(t, inv.Run(context.Background()))
	assert.Contains(t, out.String(), "debug=1")
}

// TestRunEvery verifies the service loop keeps running across failures
// and stops cleanly on context cancellation.
func TestRunEvery(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "runs")
	// Every invocation appends a line; odd invocations fail to prove
	// the loop keeps going after a failed run.
	inv := &Invoker{
		Python: fakeInterpreter(t, `echo run >> `+counter+`
lines=$(wc -l < `+counter+`)
[ $((lines % 2)) -eq 0 ]`),
		Script: entryPoint(t),
		Dir:    t.TempDir(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var logs []string
	err := inv.RunEvery(ctx, 10*time.Millisecond, func(format string, args ...any) {
		logs = append(logs, format)
	})
	require.NoError(t, err, "a cancelled service loop is not a failure")

	data, readErr := os.ReadFile(counter)
	require.NoError(t, readErr)
	runs := strings.Count(string(data), "run")
	assert.GreaterOrEqual(t, runs, 2, "the loop should have re-run the program")
	assert.Contains(t, strings.Join(logs, "\n"), "sync run failed")
}
