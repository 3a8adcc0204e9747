package python

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// Venv represents a Python virtual environment directory.
//
// A venv is identified by its pyvenv.cfg marker file, which the
// `python -m venv` module writes at the environment root. The binary
// layout differs per platform: POSIX systems use <dir>/bin, Windows
// uses <dir>\Scripts with .exe suffixes.
//
// The launcher never sources an activate script. Invoking the
// environment's own python/pip binaries directly has the same effect
// and works identically for non-interactive processes.
type Venv struct {
	// Dir is the absolute path of the environment directory.
	Dir string
}

// At returns the Venv rooted at dir, resolved against projectDir when
// dir is relative.
func At(projectDir, dir string) *Venv {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectDir, dir)
	}
	return &Venv{Dir: dir}
}

// Exists reports whether the environment directory holds a valid venv.
// The pyvenv.cfg marker distinguishes a real environment from an
// unrelated directory that happens to have the same name.
func (v *Venv) Exists() bool {
	info, err := os.Stat(filepath.Join(v.Dir, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// Python returns the path of the interpreter inside the environment.
func (v *Venv) Python() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Dir, "Scripts", "python.exe")
	}
	return filepath.Join(v.Dir, "bin", "python")
}

// Pip returns the path of the pip executable inside the environment.
func (v *Venv) Pip() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Dir, "Scripts", "pip.exe")
	}
	return filepath.Join(v.Dir, "bin", "pip")
}

// Create builds the environment with `<interpreter> -m venv <dir>`.
// The parent directory must exist; the venv module creates the
// environment directory itself.
func (v *Venv) Create(ctx context.Context, interpreterPath string) error {
	if _, err := runCmd(ctx, filepath.Dir(v.Dir), interpreterPath, "-m", "venv", v.Dir); err != nil {
		return model.WrapCLIError(model.StepVenv, err)
	}
	return nil
}

// Ensure makes the environment available: when it already exists,
// creation is skipped; otherwise it is created with the given
// interpreter. Returns whether a new environment was created.
func (v *Venv) Ensure(ctx context.Context, interpreterPath string) (created bool, err error) {
	if v.Exists() {
		return false, nil
	}
	if err := v.Create(ctx, interpreterPath); err != nil {
		return false, err
	}
	return true, nil
}
