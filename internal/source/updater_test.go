package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// commitFile writes a file into the repository working tree and commits
// it, returning the commit hash. Author identity is fixed so the tests
// do not depend on any host git configuration.
func commitFile(t *testing.T, repo *git.Repository, dir, name, content, msg string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash
}

// setupOriginAndClone builds an origin repository with one commit and a
// local clone of it. Returns the origin repo+dir and the clone dir.
func setupOriginAndClone(t *testing.T) (origin *git.Repository, originDir, cloneDir string) {
	t.Helper()

	originDir = t.TempDir()
	origin, err := git.PlainInit(originDir, false)
	require.NoError(t, err)
	commitFile(t, origin, originDir, "README.md", "# sync project\n", "initial commit")

	cloneDir = t.TempDir()
	_, err = git.PlainClone(cloneDir, false, &git.CloneOptions{URL: originDir})
	require.NoError(t, err)

	return origin, originDir, cloneDir
}

// headHash returns the current HEAD commit hash of the repository at dir.
func headHash(t *testing.T, dir string) plumbing.Hash {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	return head.Hash()
}

// defaultBranch returns the branch name the origin repository was
// initialized with. go-git's default is "master" but this keeps the
// tests independent of that detail.
func defaultBranch(t *testing.T, repo *git.Repository) string {
	t.Helper()
	head, err := repo.Head()
	require.NoError(t, err)
	return head.Name().Short()
}

// TestUpdateFastForwards verifies the main path: a new commit on the
// origin is fetched and the clone's branch fast-forwarded to it.
func TestUpdateFastForwards(t *testing.T) {
	origin, originDir, cloneDir := setupOriginAndClone(t)
	branch := defaultBranch(t, origin)

	newTip := commitFile(t, origin, originDir, "feature.py", "print('hi')\n", "add feature")

	u := NewUpdater(cloneDir)
	require.NoError(t, u.Update(context.Background(), "origin", branch))
	assert.Equal(t, newTip, headHash(t, cloneDir))
}

// TestUpdateAlreadyCurrent verifies an up-to-date clone updates cleanly
// with no change.
func TestUpdateAlreadyCurrent(t *testing.T) {
	origin, _, cloneDir := setupOriginAndClone(t)
	branch := defaultBranch(t, origin)

	before := headHash(t, cloneDir)
	u := NewUpdater(cloneDir)
	require.NoError(t, u.Update(context.Background(), "origin", branch))
	assert.Equal(t, before, headHash(t, cloneDir))
}

// TestUpdateCreatesLocalBranch verifies switching to a branch that only
// exists on the remote: the local branch is created at the remote tip.
func TestUpdateCreatesLocalBranch(t *testing.T) {
	origin, originDir, cloneDir := setupOriginAndClone(t)

	// Create a dev branch with an extra commit on the origin, then
	// return the origin to its original branch so the clone's default
	// checkout is unaffected.
	originalBranch := defaultBranch(t, origin)
	originWt, err := origin.Worktree()
	require.NoError(t, err)
	require.NoError(t, originWt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("dev"),
		Create: true,
	}))
	devTip := commitFile(t, origin, originDir, "dev.py", "# dev only\n", "dev work")
	require.NoError(t, originWt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(originalBranch),
	}))

	u := NewUpdater(cloneDir)
	require.NoError(t, u.Update(context.Background(), "origin", "dev"))
	assert.Equal(t, devTip, headHash(t, cloneDir))

	st, err := Inspect(cloneDir)
	require.NoError(t, err)
	assert.Equal(t, "dev", st.Branch)
}

// TestUpdateUnknownBranch verifies a branch that exists nowhere fails
// as an update-step error.
func TestUpdateUnknownBranch(t *testing.T) {
	_, _, cloneDir := setupOriginAndClone(t)

	u := NewUpdater(cloneDir)
	err := u.Update(context.Background(), "origin", "does-not-exist")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.StepUpdate, cliErr.Step)
}

// TestUpdateNotARepository verifies a plain directory fails cleanly.
func TestUpdateNotARepository(t *testing.T) {
	u := NewUpdater(t.TempDir())
	err := u.Update(context.Background(), "origin", "main")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.StepUpdate, cliErr.Step)
	assert.Contains(t, err.Error(), "not a git repository")
}

// TestInspect verifies the doctor-facing status report.
func TestInspect(t *testing.T) {
	origin, originDir, _ := setupOriginAndClone(t)

	st, err := Inspect(originDir)
	require.NoError(t, err)
	assert.Equal(t, defaultBranch(t, origin), st.Branch)
	assert.Len(t, st.Commit, 7)

	_, err = Inspect(t.TempDir())
	assert.Error(t, err)
}
