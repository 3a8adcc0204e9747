package python

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// Install runs `pip install -r <manifest>` with the environment's own
// pip. Output streams to the given writers so the operator can watch
// package resolution live, matching how the launcher has always shown
// installer output.
//
// The manifest must exist; a project without a requirements file should
// skip this step rather than call Install.
func (v *Venv) Install(ctx context.Context, manifestPath string, stdout, stderr io.Writer) error {
	if _, err := os.Stat(manifestPath); err != nil {
		return model.WrapCLIError(model.StepInstall, fmt.Errorf("dependency manifest not found: %s", manifestPath))
	}

	if err := runCmdStreaming(ctx, v.Dir, v.Pip(), stdout, stderr, "install", "-r", manifestPath); err != nil {
		return model.WrapCLIError(model.StepInstall, err)
	}
	return nil
}
