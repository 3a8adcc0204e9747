package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// Invoker runs the external sync program with the virtual environment's
// interpreter. The launcher makes no assumptions about what the program
// does; its contract is only the working directory, the environment
// variables, and the exit status.
type Invoker struct {
	// Python is the interpreter used to run the entry point, normally
	// the venv's own python so the installed dependencies resolve.
	Python string

	// Script is the entry point file, e.g. the project's main.py.
	Script string

	// Dir is the working directory for the child process. The sync
	// program reads its own config.json relative to this directory.
	Dir string

	// Env holds extra environment variables layered over the launcher's
	// environment. Keys here win over inherited values.
	Env map[string]string

	// Stdout and Stderr receive the child's output. The launcher
	// always passes the sync program's output through unmodified.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the sync program once and waits for it to finish.
// A non-zero exit status (or a spawn failure) is returned as a CLIError
// for StepSync. Context cancellation kills the child.
func (i *Invoker) Run(ctx context.Context) error {
	if _, err := os.Stat(i.Script); err != nil {
		return model.WrapCLIError(model.StepSync, fmt.Errorf("entry point not found: %s", i.Script))
	}

	// #nosec G204 — interpreter and script paths are resolved internally
	cmd := exec.CommandContext(ctx, i.Python, i.Script)
	cmd.Dir = i.Dir
	cmd.Stdout = i.Stdout
	cmd.Stderr = i.Stderr
	cmd.Env = mergedEnv(i.Env)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return model.WrapCLIError(model.StepSync,
				fmt.Errorf("sync program exited with status %d", exitErr.ExitCode()))
		}
		return model.WrapCLIError(model.StepSync, err)
	}
	return nil
}

// RunEvery executes the sync program repeatedly with the given interval
// between the end of one run and the start of the next. A failing run
// is logged through logf and does not stop the loop; the service keeps
// trying on the next tick. The loop ends when the context is cancelled,
// which is reported as success (a stopped service is not a failure).
func (i *Invoker) RunEvery(ctx context.Context, interval time.Duration, logf func(format string, args ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	for {
		logf("starting sync run")
		if err := i.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logf("sync run failed: %v", err)
		} else {
			logf("sync run complete")
		}

		logf("waiting %s until next run", interval)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// mergedEnv layers extra variables over the current process environment.
// Keys are emitted in sorted order to keep child environments stable
// across runs.
func mergedEnv(extra map[string]string) []string {
	env := os.Environ()
	if len(extra) == 0 {
		return env
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
