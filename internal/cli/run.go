// run.go implements the "groundwork run" command: the full bootstrap
// pipeline followed by the sync program invocation.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/groundwork/internal/config"
	"github.com/mmr-tortoise/groundwork/internal/launch"
	"github.com/mmr-tortoise/groundwork/internal/model"
	"github.com/mmr-tortoise/groundwork/internal/pipeline"
	"github.com/mmr-tortoise/groundwork/internal/ui"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	branch      string        // --branch: override the configured branch
	remote      string        // --remote: override the configured remote
	skipUpdate  bool          // --skip-update: leave the working tree as-is
	skipInstall bool          // --skip-install: skip dependency installation
	every       time.Duration // --every: re-run the sync program on an interval
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare the environment and run the sync program",
		Long: `Run the full bootstrap sequence and then the sync program:

  1. Probe PATH for a Python interpreter
  2. Create the virtual environment if missing
  3. Fetch and fast-forward the configured git branch
  4. Install the pinned dependency manifest
  5. Invoke the sync entry point and surface its exit status

The first failing step halts the run with a step-specific message and
exit code 1.

Examples:
  groundwork run
  groundwork run --branch dev
  groundwork run --skip-update --skip-install
  groundwork run --every 5m`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.branch, "branch", "", "Branch to check out (default: from config, \"main\")")
	cmd.Flags().StringVar(&flags.remote, "remote", "", "Git remote to fetch (default: from config, \"origin\")")
	cmd.Flags().BoolVar(&flags.skipUpdate, "skip-update", false, "Skip the git fetch/checkout step")
	cmd.Flags().BoolVar(&flags.skipInstall, "skip-install", false, "Skip dependency installation")
	cmd.Flags().DurationVar(&flags.every, "every", 0, "Re-run the sync program on this interval until interrupted")

	return cmd
}

// runRun orchestrates the run command. The preparation steps execute
// exactly once; the sync invocation runs either once (default) or on an
// interval (--every).
func runRun(ctx context.Context, flags *runFlags) error {
	// SIGINT/SIGTERM cancel the context, which kills whichever child
	// process is active and unwinds the run.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, cfg, err := prepare(flags)
	if err != nil {
		return err
	}

	invoker := &launch.Invoker{
		Script: config.Resolve(b.projectDir, cfg.EntryPoint),
		Dir:    b.projectDir,
		Env:    cfg.Env,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	steps := b.prepareSteps()
	serviceMode := flags.every > 0
	if !serviceMode {
		steps = append(steps, pipeline.Step{
			ID: model.StepSync,
			Run: func(ctx context.Context) (string, error) {
				// The venv is resolved by the time this step runs.
				invoker.Python = b.venv.Python()
				return "", invoker.Run(ctx)
			},
		})
	}

	report := pipeline.NewRunner(stepObserver(len(steps)), steps...).Run(ctx)
	if failed := report.Failed(); failed != nil {
		return failed.Err
	}

	if serviceMode {
		invoker.Python = b.venv.Python()
		logf := func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "[groundwork] "+format+"\n", args...)
		}
		if err := invoker.RunEvery(ctx, flags.every, logf); err != nil {
			return err
		}
		fmt.Println("Sync service stopped.")
		return nil
	}

	printRunResult(report)
	return nil
}

// prepare resolves the project directory and configuration, applies
// flag overrides, and returns the shared bootstrap state.
func prepare(flags *runFlags) (*bootstrap, *config.Config, error) {
	dir, err := resolveProjectDir()
	if err != nil {
		return nil, nil, err
	}
	VerboseLog("Project directory: %s", dir)

	cfg, err := config.LoadOrDefault(dir, configPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.branch != "" {
		cfg.Branch = flags.branch
	}
	if flags.remote != "" {
		cfg.Remote = flags.remote
	}
	VerboseLog("Tracking %s/%s, venv %s", cfg.Remote, cfg.Branch, cfg.VenvDir)

	b := newBootstrap(dir, cfg, os.Stdout, os.Stderr)
	b.skipUpdate = flags.skipUpdate
	b.skipInstall = flags.skipInstall
	return b, cfg, nil
}

// stepObserver returns the progress printer for text mode, or nil in
// JSON mode where the final report is the only stdout output.
func stepObserver(total int) pipeline.Observer {
	if jsonOutput {
		return nil
	}
	return ui.NewStepPrinter(os.Stderr, total)
}

// printRunResult outputs the completed run in text or JSON format.
func printRunResult(report *model.RunReport) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Println("All steps completed successfully.")
}
