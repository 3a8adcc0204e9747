// Package cli implements the cobra-based CLI commands for groundwork.
//
// Each subcommand (run, setup, doctor) is defined in its own file
// within this package. This file defines the root command that serves
// as the parent for all subcommands and handles global flags.
package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	verbose bool

	// configPath is an explicit configuration file path. Empty means
	// the project directory is searched for a groundwork.{json,yaml}.
	configPath string

	// projectDir is the project root all relative paths resolve
	// against. Empty means the current working directory. This replaces
	// the original launcher's chdir-to-script-directory with explicit
	// path pinning, so the process working directory is never mutated.
	projectDir string

	// pauseOnExit keeps the console open until Enter is pressed, for
	// runs started by double-click where the window would close before
	// the operator can read the outcome.
	pauseOnExit bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only
// provides help text and global flags. Actual functionality is provided
// by subcommands (run, setup, doctor).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "groundwork",
		Short: "Bootstrap launcher for the Jira→Todoist sync program",
		Long: `groundwork prepares a local Python project and runs its synchronization
entry point: it probes for an interpreter, creates the virtual environment if
missing, fast-forwards the source from the configured git branch, installs the
pinned dependencies, and finally invokes the sync program, surfacing its exit
status.

Every step is fatal on failure: the launcher halts at the first failing step
and reports it with a step-specific message.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: groundwork.{json,yaml} in the project directory)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&pauseOnExit, "pause", false, "Wait for Enter before exiting (for double-click launches)")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewSetupCommand())
	rootCmd.AddCommand(NewDoctorCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// Per the launcher's contract, every failure exits with code 1: the
// step-specific message on stderr is what identifies the failing step,
// not the exit code.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		maybePause()
		return
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(cliErr.Message, cliErr.Err)
	} else {
		printError(err.Error(), nil)
	}
	maybePause()
	os.Exit(int(model.ExitFailure))
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// maybePause blocks until Enter is pressed when --pause is set. This
// keeps an interactively launched console window open long enough for
// the operator to read the outcome.
func maybePause() {
	if !pauseOnExit {
		return
	}
	fmt.Fprint(os.Stderr, "Press Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

// VerboseLog prints a message to stderr only when verbose mode is
// enabled. Used throughout the CLI for trace output.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// resolveProjectDir returns the absolute project directory: the --dir
// flag when given, otherwise the current working directory.
func resolveProjectDir() (string, error) {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("project directory does not exist: %s", abs)
	}
	return abs, nil
}
