// doctor.go implements the "groundwork doctor" command: a read-only
// diagnosis of the project environment. Doctor never mutates anything —
// it reports what run would find, so operators can see why a scheduled
// run failed without triggering another one.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/groundwork/internal/config"
	"github.com/mmr-tortoise/groundwork/internal/python"
	"github.com/mmr-tortoise/groundwork/internal/source"
	"github.com/mmr-tortoise/groundwork/internal/ui"
)

// NewDoctorCommand creates the "doctor" cobra command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the project environment",
		Long: `Check everything a run would need: the Python interpreter, the git
repository, the virtual environment, the dependency manifest, and the sync
entry point. Nothing is created or modified.

Exits 0 when the environment is ready and 1 otherwise.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context())
		},
	}

	return cmd
}

// runDoctor gathers the checks and renders them.
func runDoctor(ctx context.Context) error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(dir, configPath)
	if err != nil {
		return err
	}

	checks := gatherChecks(ctx, dir, cfg)

	if IsJSONOutput() {
		result := struct {
			ProjectDir string     `json:"projectDir"`
			Healthy    bool       `json:"healthy"`
			Checks     []ui.Check `json:"checks"`
		}{ProjectDir: dir, Healthy: ui.Healthy(checks), Checks: checks}

		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		if err := ui.RenderChecks(os.Stdout, "Environment for "+dir, checks); err != nil {
			return err
		}
		fmt.Println(ui.Summary(checks))
	}

	if !ui.Healthy(checks) {
		return fmt.Errorf("environment is not ready")
	}
	return nil
}

// gatherChecks builds the doctor report for a project directory.
func gatherChecks(ctx context.Context, dir string, cfg *config.Config) []ui.Check {
	var checks []ui.Check

	// Interpreter: same probe the run command uses.
	if interp, err := python.Probe(ctx, cfg.Interpreters); err != nil {
		checks = append(checks, ui.Check{Name: "Python interpreter", OK: false, Detail: err.Error()})
	} else {
		checks = append(checks, ui.Check{Name: "Python interpreter", OK: true, Detail: interp.String()})
	}

	// Git repository: the update step needs an existing clone.
	if st, err := source.Inspect(dir); err != nil {
		checks = append(checks, ui.Check{Name: "Git repository", OK: false, Detail: err.Error()})
	} else {
		checks = append(checks, ui.Check{
			Name:   "Git repository",
			OK:     true,
			Detail: fmt.Sprintf("branch %s @ %s (tracking %s/%s)", st.Branch, st.Commit, cfg.Remote, cfg.Branch),
		})
	}

	// Virtual environment: absence is not a failure — run creates it.
	venv := python.At(dir, cfg.VenvDir)
	if venv.Exists() {
		checks = append(checks, ui.Check{Name: "Virtual environment", OK: true, Detail: venv.Dir})
	} else {
		checks = append(checks, ui.Check{Name: "Virtual environment", OK: true, Detail: "not created yet (run will create it)"})
	}

	// Dependency manifest and entry point must exist on disk.
	checks = append(checks, fileCheck("Dependency manifest", config.Resolve(dir, cfg.Requirements)))
	checks = append(checks, fileCheck("Sync entry point", config.Resolve(dir, cfg.EntryPoint)))

	// Configuration: informational only.
	if path := configFileInUse(dir); path != "" {
		checks = append(checks, ui.Check{Name: "Configuration", OK: true, Detail: path})
	} else {
		checks = append(checks, ui.Check{Name: "Configuration", OK: true, Detail: "defaults (no config file)"})
	}

	return checks
}

// fileCheck reports whether a required file exists.
func fileCheck(name, path string) ui.Check {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return ui.Check{Name: name, OK: true, Detail: path}
	}
	return ui.Check{Name: name, OK: false, Detail: "missing: " + path}
}

// configFileInUse returns the effective config file path, or "" when
// running on defaults.
func configFileInUse(dir string) string {
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return configPath
		}
		return abs
	}
	return config.Find(dir)
}
