// Package model defines the domain types for the groundwork CLI.
//
// All entities in this package are transient process state: the launcher
// keeps no persistent records. The types describe the ordered bootstrap
// steps, their outcomes, and the exit-code contract the binary exposes
// to operators and schedulers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// StepID identifies one of the ordered bootstrap steps. The launcher
// always evaluates steps in declaration order:
//
//	interpreter → venv → update → install → sync
//
// Any step's failure halts the run; later steps are never attempted.
type StepID string

const (
	// StepInterpreter probes the PATH for a usable Python interpreter.
	StepInterpreter StepID = "interpreter"

	// StepVenv creates (if missing) and resolves the project's virtual
	// environment directory.
	StepVenv StepID = "venv"

	// StepUpdate fetches the configured remote and checks out the
	// configured branch, fast-forwarding the local copy.
	StepUpdate StepID = "update"

	// StepInstall installs the pinned dependency manifest into the
	// virtual environment.
	StepInstall StepID = "install"

	// StepSync invokes the external synchronization entry point and
	// waits for it to finish.
	StepSync StepID = "sync"
)

// Steps lists all bootstrap steps in execution order.
// Callers iterate this slice when they need the canonical ordering
// (e.g., rendering a full run report).
var Steps = []StepID{StepInterpreter, StepVenv, StepUpdate, StepInstall, StepSync}

// String returns the string representation of the StepID.
// This satisfies fmt.Stringer for log and report output.
func (s StepID) String() string {
	return string(s)
}

// IsValid checks whether the StepID is one of the predefined steps.
func (s StepID) IsValid() bool {
	switch s {
	case StepInterpreter, StepVenv, StepUpdate, StepInstall, StepSync:
		return true
	default:
		return false
	}
}

// ParseStepID converts a string to a StepID.
// Returns an error if the string does not match any known step.
func ParseStepID(s string) (StepID, error) {
	id := StepID(strings.ToLower(s))
	if !id.IsValid() {
		return "", fmt.Errorf("invalid step %q (valid: interpreter, venv, update, install, sync)", s)
	}
	return id, nil
}

// Title returns the human-readable name of the step, used as the label
// in progress output and doctor reports.
func (s StepID) Title() string {
	switch s {
	case StepInterpreter:
		return "Python interpreter"
	case StepVenv:
		return "Virtual environment"
	case StepUpdate:
		return "Source update"
	case StepInstall:
		return "Dependency install"
	case StepSync:
		return "Sync program"
	default:
		return string(s)
	}
}

// FailureMessage returns the operator-facing message printed when the
// step fails. Each step has exactly one message; the underlying error
// carries the detail. These strings are part of the CLI contract and
// should not be reworded casually.
func (s StepID) FailureMessage() string {
	switch s {
	case StepInterpreter:
		return "Python is not installed or could not be found on PATH"
	case StepVenv:
		return "Virtual environment setup failed"
	case StepUpdate:
		return "Git operation failed"
	case StepInstall:
		return "Dependency installation failed"
	case StepSync:
		return "Script execution failed"
	default:
		return "Step failed"
	}
}

// StepStatus represents the outcome of a single bootstrap step within
// one launcher run.
type StepStatus string

const (
	// StatusPending indicates the step has not started yet.
	StatusPending StepStatus = "pending"

	// StatusRunning indicates the step is currently executing.
	StatusRunning StepStatus = "running"

	// StatusOK indicates the step completed successfully.
	StatusOK StepStatus = "ok"

	// StatusFailed indicates the step returned an error. A failed step
	// halts the run; every later step is reported as skipped.
	StatusFailed StepStatus = "failed"

	// StatusSkipped indicates the step was not executed, either because
	// the operator disabled it (--skip-update, --skip-install) or
	// because an earlier step failed.
	StatusSkipped StepStatus = "skipped"
)

// String returns the string representation of the StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// IsValid checks whether the StepStatus is one of the predefined states.
func (s StepStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusOK, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// StepResult records the outcome of one bootstrap step.
type StepResult struct {
	// Step identifies which bootstrap step this result belongs to.
	Step StepID `json:"step"`

	// Status is the terminal status of the step for this run.
	Status StepStatus `json:"status"`

	// Detail is an optional human-readable note about the outcome,
	// e.g. the interpreter version that was found or the reason a
	// step was skipped.
	Detail string `json:"detail,omitempty"`

	// Duration is how long the step ran. Zero for skipped steps.
	Duration time.Duration `json:"duration"`

	// Err holds the step's error when Status is StatusFailed.
	// Excluded from JSON output; the CLI layer renders errors itself.
	Err error `json:"-"`
}

// RunReport aggregates the step results of a single launcher run.
type RunReport struct {
	// Started is when the run began.
	Started time.Time `json:"started"`

	// Steps holds one result per step, in execution order. Steps that
	// were never reached because of an earlier failure appear with
	// StatusSkipped.
	Steps []StepResult `json:"steps"`
}

// Failed returns the first failed step result, or nil if every executed
// step succeeded.
func (r *RunReport) Failed() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StatusFailed {
			return &r.Steps[i]
		}
	}
	return nil
}

// OK reports whether the run completed without any failed step.
func (r *RunReport) OK() bool {
	return r.Failed() == nil
}

// ExitCode defines the process exit codes the launcher returns.
// The contract is deliberately narrow: operators and schedulers only
// need to distinguish success from failure, and the step-specific
// failure message on stderr identifies what went wrong.
type ExitCode int

const (
	// ExitSuccess indicates every step completed and the sync program
	// returned zero.
	ExitSuccess ExitCode = 0

	// ExitFailure indicates any step failed: interpreter missing,
	// environment setup, git update, dependency install, or a non-zero
	// sync program exit.
	ExitFailure ExitCode = 1
)

// CLIError is the error type returned by every bootstrap step. It
// carries the step that failed so the CLI layer can print the
// step-specific failure message and report the step in JSON output.
type CLIError struct {
	// Step is the bootstrap step that produced the error.
	Step StepID

	// Message is the operator-facing description, normally the step's
	// FailureMessage.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError for the given step with the step's
// canonical failure message.
func NewCLIError(step StepID) *CLIError {
	return &CLIError{Step: step, Message: step.FailureMessage()}
}

// WrapCLIError creates a CLIError for the given step that wraps an
// underlying error. The message is the step's canonical failure message.
func WrapCLIError(step StepID, err error) *CLIError {
	return &CLIError{Step: step, Message: step.FailureMessage(), Err: err}
}
