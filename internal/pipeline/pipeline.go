package pipeline

import (
	"context"
	"time"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// Step is one fallible unit of the bootstrap sequence.
type Step struct {
	// ID identifies the bootstrap step.
	ID model.StepID

	// SkipReason, when non-empty, marks the step as disabled for this
	// run. The runner records it as skipped without executing Run.
	SkipReason string

	// Run executes the step. The returned detail string is attached to
	// the step's result for progress output (e.g. the interpreter
	// version that was found). A nil Run with an empty SkipReason is
	// recorded as skipped with no reason.
	Run func(ctx context.Context) (detail string, err error)
}

// Observer receives step lifecycle notifications. The UI layer
// implements this to print progress lines as the run advances.
type Observer interface {
	// StepStarted is called immediately before a step's Run executes.
	// It is not called for skipped steps.
	StepStarted(id model.StepID)

	// StepFinished is called with the step's terminal result, including
	// skipped steps.
	StepFinished(result model.StepResult)
}

// Runner executes bootstrap steps strictly in order, stopping at the
// first failure. There are no retries and no partial-failure recovery:
// a failed step halts the run and every remaining step is reported as
// skipped.
type Runner struct {
	steps []Step
	obs   Observer
}

// NewRunner creates a Runner over the given steps. The observer may be
// nil when no progress output is wanted (tests, JSON mode).
func NewRunner(obs Observer, steps ...Step) *Runner {
	return &Runner{steps: steps, obs: obs}
}

// Run executes the steps and returns the full report. The report always
// contains one result per configured step; the run's outcome is read
// via report.Failed().
//
// Context cancellation is checked between steps; a running step is
// responsible for honoring the context itself (all exec-backed steps
// do, via exec.CommandContext).
func (r *Runner) Run(ctx context.Context) *model.RunReport {
	report := &model.RunReport{Started: time.Now()}

	halted := false
	for _, step := range r.steps {
		result := model.StepResult{Step: step.ID}

		switch {
		case halted:
			result.Status = model.StatusSkipped
			result.Detail = "previous step failed"

		case step.SkipReason != "" || step.Run == nil:
			result.Status = model.StatusSkipped
			result.Detail = step.SkipReason

		case ctx.Err() != nil:
			result.Status = model.StatusFailed
			result.Err = model.WrapCLIError(step.ID, ctx.Err())
			halted = true

		default:
			if r.obs != nil {
				r.obs.StepStarted(step.ID)
			}
			start := time.Now()
			detail, err := step.Run(ctx)
			result.Duration = time.Since(start)
			result.Detail = detail
			if err != nil {
				result.Status = model.StatusFailed
				result.Err = err
				halted = true
			} else {
				result.Status = model.StatusOK
			}
		}

		if r.obs != nil {
			r.obs.StepFinished(result)
		}
		report.Steps = append(report.Steps, result)
	}

	return report
}
