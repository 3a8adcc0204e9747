// Package ui renders launcher progress and diagnostic output for the
// terminal. Styling goes through lipgloss, which degrades to plain text
// when the output is not a TTY, so the same code path serves both
// interactive windows and scheduled/logged runs.
package ui

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	skipStyle = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
)

// glyph returns the styled status marker for a step result.
func glyph(status model.StepStatus) string {
	switch status {
	case model.StatusOK:
		return okStyle.Render("ok")
	case model.StatusFailed:
		return failStyle.Render("failed")
	case model.StatusSkipped:
		return skipStyle.Render("skipped")
	default:
		return string(status)
	}
}

// StepPrinter renders one line per bootstrap step as the pipeline
// advances. It implements pipeline.Observer.
type StepPrinter struct {
	out   io.Writer
	total int
	index int
}

// NewStepPrinter creates a printer for a run of total steps.
func NewStepPrinter(out io.Writer, total int) *StepPrinter {
	return &StepPrinter{out: out, total: total}
}

// StepStarted announces a step before it runs.
func (p *StepPrinter) StepStarted(id model.StepID) {
	p.index++
	fmt.Fprintf(p.out, "[%d/%d] %s...\n", p.index, p.total, id.Title())
}

// StepFinished prints the step's outcome. Skipped steps get their own
// line (StepStarted never fired for them), keeping the numbering
// consistent with the configured step count.
func (p *StepPrinter) StepFinished(result model.StepResult) {
	if result.Status == model.StatusSkipped {
		p.index++
		reason := result.Detail
		if reason == "" {
			reason = "skipped"
		}
		fmt.Fprintf(p.out, "[%d/%d] %s: %s\n", p.index, p.total, result.Step.Title(), skipStyle.Render(reason))
		return
	}

	line := fmt.Sprintf("      %s", glyph(result.Status))
	if result.Detail != "" {
		line += " — " + result.Detail
	}
	if result.Duration > 0 {
		line += fmt.Sprintf(" (%s)", result.Duration.Round(10*time.Millisecond))
	}
	fmt.Fprintln(p.out, line)
}

// Check is one row of a doctor report.
type Check struct {
	// Name is the check's display label.
	Name string `json:"name"`

	// OK reports whether the check passed.
	OK bool `json:"ok"`

	// Detail is the finding, e.g. a resolved path or an error message.
	Detail string `json:"detail,omitempty"`
}

// RenderChecks prints a doctor report as an aligned two-column table
// with styled pass/fail markers.
func RenderChecks(out io.Writer, title string, checks []Check) error {
	fmt.Fprintln(out, boldStyle.Render(title))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range checks {
		marker := okStyle.Render("ok")
		if !c.OK {
			marker = failStyle.Render("fail")
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.Name, marker, c.Detail)
	}
	return tw.Flush()
}

// Healthy reports whether every check passed.
func Healthy(checks []Check) bool {
	for _, c := range checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Summary returns a one-line digest of a doctor report, e.g.
// "5 checks, 1 failing".
func Summary(checks []Check) string {
	failing := 0
	for _, c := range checks {
		if !c.OK {
			failing++
		}
	}
	if failing == 0 {
		return fmt.Sprintf("%d checks, all passing", len(checks))
	}
	return fmt.Sprintf("%d checks, %d failing", len(checks), failing)
}
