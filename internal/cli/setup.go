// setup.go implements the "groundwork setup" command: the preparation
// steps only, without invoking the sync program. Useful for provisioning
// a machine ahead of its first scheduled run.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/groundwork/internal/model"
	"github.com/mmr-tortoise/groundwork/internal/pipeline"
)

// NewSetupCommand creates the "setup" cobra command.
func NewSetupCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Prepare the environment without running the sync program",
		Long: `Run the preparation steps only: interpreter probe, virtual environment,
source update, and dependency install. The sync program is not invoked.

Examples:
  groundwork setup
  groundwork setup --branch dev --skip-install`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.branch, "branch", "", "Branch to check out (default: from config, \"main\")")
	cmd.Flags().StringVar(&flags.remote, "remote", "", "Git remote to fetch (default: from config, \"origin\")")
	cmd.Flags().BoolVar(&flags.skipUpdate, "skip-update", false, "Skip the git fetch/checkout step")
	cmd.Flags().BoolVar(&flags.skipInstall, "skip-install", false, "Skip dependency installation")

	return cmd
}

// runSetup executes the preparation pipeline and reports the result.
func runSetup(ctx context.Context, flags *runFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, _, err := prepare(flags)
	if err != nil {
		return err
	}

	steps := b.prepareSteps()
	report := pipeline.NewRunner(stepObserver(len(steps)), steps...).Run(ctx)
	if failed := report.Failed(); failed != nil {
		return failed.Err
	}

	printSetupResult(report)
	return nil
}

// printSetupResult outputs the completed setup in text or JSON format.
func printSetupResult(report *model.RunReport) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Println("Environment ready.")
}
