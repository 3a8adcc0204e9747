package python

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// Interpreter describes a Python interpreter found on the search path.
type Interpreter struct {
	// Path is the absolute path of the interpreter binary as resolved
	// by exec.LookPath.
	Path string

	// Version is the reported version string, e.g. "3.12.1".
	// Empty if the interpreter refused to report one.
	Version string
}

// String returns a short description suitable for progress output,
// e.g. "python 3.12.1 (/usr/bin/python3)".
func (i *Interpreter) String() string {
	if i.Version == "" {
		return i.Path
	}
	return fmt.Sprintf("python %s (%s)", i.Version, i.Path)
}

// Probe searches PATH for the first usable interpreter among the given
// candidate names, in order. A candidate is usable when it resolves on
// PATH and responds to --version.
//
// Returns a CLIError for StepInterpreter when no candidate is usable,
// so the caller can report the interpreter-missing message and stop
// before any later step runs.
func Probe(ctx context.Context, candidates []string) (*Interpreter, error) {
	var tried []string
	for _, name := range candidates {
		path, err := exec.LookPath(name)
		if err != nil {
			tried = append(tried, name)
			continue
		}

		version, err := queryVersion(ctx, path)
		if err != nil {
			// Present on PATH but broken — keep probing. A shim that
			// cannot even report its version will not run the sync.
			tried = append(tried, name)
			continue
		}

		return &Interpreter{Path: path, Version: version}, nil
	}

	return nil, model.WrapCLIError(
		model.StepInterpreter,
		fmt.Errorf("no usable interpreter among: %s", strings.Join(tried, ", ")),
	)
}

// queryVersion runs `<python> --version` and parses the reported
// version number. Python 3.4+ prints "Python X.Y.Z" on stdout; some
// older builds use stderr, so both streams are accepted.
func queryVersion(ctx context.Context, path string) (string, error) {
	// #nosec G204 — path comes from exec.LookPath over configured names
	cmd := exec.CommandContext(ctx, path, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s --version failed: %w", path, err)
	}

	return parseVersion(string(out)), nil
}

// parseVersion extracts "X.Y.Z" from a "Python X.Y.Z" banner.
// Returns an empty string when the banner has an unexpected shape;
// the interpreter is still considered usable in that case.
func parseVersion(banner string) string {
	fields := strings.Fields(strings.TrimSpace(banner))
	if len(fields) >= 2 && strings.EqualFold(fields[0], "python") {
		return fields[1]
	}
	return ""
}
