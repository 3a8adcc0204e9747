// bootstrap.go builds the ordered pipeline steps shared by the run and
// setup commands. The steps communicate through the bootstrap struct:
// the interpreter probe result feeds venv creation, and the resolved
// venv feeds dependency install and the sync invocation.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mmr-tortoise/groundwork/internal/config"
	"github.com/mmr-tortoise/groundwork/internal/model"
	"github.com/mmr-tortoise/groundwork/internal/pipeline"
	"github.com/mmr-tortoise/groundwork/internal/python"
	"github.com/mmr-tortoise/groundwork/internal/source"
)

// bootstrap carries the state threaded through the pipeline steps of a
// single run.
type bootstrap struct {
	projectDir string
	cfg        *config.Config

	skipUpdate  bool
	skipInstall bool

	// stdout/stderr receive streamed child output (pip, sync program).
	stdout io.Writer
	stderr io.Writer

	// interp is set by the interpreter step and read by the venv step.
	interp *python.Interpreter

	// venv is set by the venv step and read by install and sync.
	venv *python.Venv
}

// newBootstrap creates the shared step state for one run.
func newBootstrap(projectDir string, cfg *config.Config, stdout, stderr io.Writer) *bootstrap {
	return &bootstrap{
		projectDir: projectDir,
		cfg:        cfg,
		stdout:     stdout,
		stderr:     stderr,
	}
}

// prepareSteps returns the four preparation steps (interpreter, venv,
// update, install) in execution order. The sync step is appended
// separately by the run command; setup stops here.
func (b *bootstrap) prepareSteps() []pipeline.Step {
	return []pipeline.Step{
		{ID: model.StepInterpreter, Run: b.probeInterpreter},
		{ID: model.StepVenv, Run: b.ensureVenv},
		{ID: model.StepUpdate, SkipReason: skipReason(b.skipUpdate, "--skip-update"), Run: b.updateSource},
		{ID: model.StepInstall, SkipReason: skipReason(b.skipInstall, "--skip-install"), Run: b.installDeps},
	}
}

// probeInterpreter locates a usable Python interpreter on PATH.
func (b *bootstrap) probeInterpreter(ctx context.Context) (string, error) {
	interp, err := python.Probe(ctx, b.cfg.Interpreters)
	if err != nil {
		return "", err
	}
	b.interp = interp
	return interp.String(), nil
}

// ensureVenv creates the virtual environment when missing and resolves
// it for the later steps.
func (b *bootstrap) ensureVenv(ctx context.Context) (string, error) {
	b.venv = python.At(b.projectDir, b.cfg.VenvDir)
	created, err := b.venv.Ensure(ctx, b.interp.Path)
	if err != nil {
		return "", err
	}
	if created {
		return "created " + b.venv.Dir, nil
	}
	return "reusing " + b.venv.Dir, nil
}

// updateSource fetches the remote and fast-forwards the configured
// branch.
func (b *bootstrap) updateSource(ctx context.Context) (string, error) {
	u := source.NewUpdater(b.projectDir)
	if err := u.Update(ctx, b.cfg.Remote, b.cfg.Branch); err != nil {
		return "", err
	}

	detail := fmt.Sprintf("%s/%s", b.cfg.Remote, b.cfg.Branch)
	if st, err := source.Inspect(b.projectDir); err == nil {
		detail = fmt.Sprintf("%s @ %s", detail, st.Commit)
	}
	return detail, nil
}

// installDeps installs the dependency manifest into the venv.
func (b *bootstrap) installDeps(ctx context.Context) (string, error) {
	manifest := config.Resolve(b.projectDir, b.cfg.Requirements)
	if err := b.venv.Install(ctx, manifest, b.stdout, b.stderr); err != nil {
		return "", err
	}
	return b.cfg.Requirements, nil
}

// skipReason returns the reason when skip is set, empty otherwise.
func skipReason(skip bool, reason string) string {
	if skip {
		return reason
	}
	return ""
}
