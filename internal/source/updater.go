package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/mmr-tortoise/groundwork/internal/model"
)

// Updater brings a local clone up to date with a remote branch.
//
// The update is fetch + checkout + fast-forward pull, implemented on
// go-git so the launcher has no runtime dependency on a git binary.
// A merge is never attempted: if the local branch has diverged from the
// remote, the update fails and the operator has to reconcile by hand.
type Updater struct {
	// dir is the repository root (the project directory).
	dir string
}

// NewUpdater creates an Updater for the repository at dir.
func NewUpdater(dir string) *Updater {
	return &Updater{dir: dir}
}

// Update fetches the remote and makes the named branch the checked-out,
// up-to-date working tree. The sequence is:
//
//  1. Fetch the remote (no-op when already up to date).
//  2. Check out the local branch; when it does not exist yet, create it
//     at the fetched remote ref.
//  3. Fast-forward pull the branch from the remote.
//
// Every failure is returned as a CLIError for StepUpdate, so the CLI
// reports the git failure message and halts before dependency install.
func (u *Updater) Update(ctx context.Context, remote, branch string) error {
	repo, err := git.PlainOpen(u.dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return model.WrapCLIError(model.StepUpdate, fmt.Errorf("not a git repository: %s", u.dir))
		}
		return model.WrapCLIError(model.StepUpdate, err)
	}

	if err := repo.FetchContext(ctx, &git.FetchOptions{RemoteName: remote}); err != nil &&
		!errors.Is(err, git.NoErrAlreadyUpToDate) {
		return model.WrapCLIError(model.StepUpdate, fmt.Errorf("fetch %s: %w", remote, err))
	}

	wt, err := repo.Worktree()
	if err != nil {
		return model.WrapCLIError(model.StepUpdate, err)
	}

	localRef := plumbing.NewBranchReferenceName(branch)
	if err := u.checkout(repo, wt, remote, branch, localRef); err != nil {
		return err
	}

	// Fast-forward only. NoErrAlreadyUpToDate means the checkout above
	// already left the tree at the remote tip.
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    remote,
		ReferenceName: localRef,
		SingleBranch:  true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return model.WrapCLIError(model.StepUpdate, fmt.Errorf("pull %s/%s: %w", remote, branch, err))
	}

	return nil
}

// checkout switches the working tree to the local branch, creating it
// from the fetched remote ref when it does not exist yet.
func (u *Updater) checkout(repo *git.Repository, wt *git.Worktree, remote, branch string, localRef plumbing.ReferenceName) error {
	_, err := repo.Reference(localRef, true)
	switch {
	case err == nil:
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localRef}); err != nil {
			return model.WrapCLIError(model.StepUpdate, fmt.Errorf("checkout %s: %w", branch, err))
		}
		return nil

	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// No local branch yet — anchor a new one at the remote tip.
		remoteRef, refErr := repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
		if refErr != nil {
			return model.WrapCLIError(model.StepUpdate,
				fmt.Errorf("branch %q not found on remote %q: %w", branch, remote, refErr))
		}
		err := wt.Checkout(&git.CheckoutOptions{
			Hash:   remoteRef.Hash(),
			Branch: localRef,
			Create: true,
		})
		if err != nil {
			return model.WrapCLIError(model.StepUpdate, fmt.Errorf("checkout -b %s: %w", branch, err))
		}
		return nil

	default:
		return model.WrapCLIError(model.StepUpdate, err)
	}
}

// Status describes the repository state for diagnostics (doctor).
type Status struct {
	// Branch is the short name of the checked-out branch, or "HEAD"
	// when detached.
	Branch string

	// Commit is the abbreviated hash of the current HEAD commit.
	Commit string
}

// Inspect reports the current branch and commit of the repository at
// dir. Returns an error when dir is not a git repository or has no
// commits yet.
func Inspect(dir string) (*Status, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve HEAD: %w", err)
	}

	hash := head.Hash().String()
	if len(hash) > 7 {
		hash = hash[:7]
	}

	return &Status{Branch: head.Name().Short(), Commit: hash}, nil
}
