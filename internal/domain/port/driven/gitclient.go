package driven

import (
	"context"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// GitClient defines the driven port for version control operations on the
// local catalog clone. All operations are blocking and mutate real working
// tree or ref state; callers must serialize operations against one clone.
// The application layer holds a per-clone guard for this.
type GitClient interface {
	// CurrentBranch returns the checked-out branch name, or "" when HEAD
	// is detached.
	CurrentBranch(ctx context.Context) (string, error)

	// IsClean reports whether the working tree has no uncommitted changes.
	IsClean(ctx context.Context) (bool, error)

	// StashPush stashes uncommitted changes under the given label and
	// returns a handle capturing the stash's immutable SHA. Returns
	// (nil, nil) when there is nothing to stash.
	StashPush(ctx context.Context, label string) (*model.StashHandle, error)

	// StashPop restores and drops the stash identified by the handle.
	// On conflict it returns ErrStashConflict and keeps the stash entry
	// for manual recovery.
	StashPop(ctx context.Context, handle *model.StashHandle) error

	// CreateBranch creates name from the given base and checks it out.
	// A pre-existing branch of the same name is deleted first, so repeated
	// attempts never fail on "branch already exists".
	CreateBranch(ctx context.Context, name, from string) error

	// Checkout switches the working tree to an existing branch.
	Checkout(ctx context.Context, branch string) error

	// Commit stages the given paths and commits them with the message.
	Commit(ctx context.Context, paths []string, message string) error

	// Push pushes the branch to the named remote. Failures are classified
	// into ErrAuth and ErrNetwork where the output allows it.
	Push(ctx context.Context, branch, remote string) error

	// Fetch updates remote-tracking refs from the named remote.
	Fetch(ctx context.Context, remote string) error

	// MergeFastForwardOnly merges remoteBranch into the current branch,
	// refusing to create a merge commit. Returns ErrFastForward when the
	// histories diverged.
	MergeFastForwardOnly(ctx context.Context, remoteBranch string) error

	// Divergence counts commits unique to the current branch and to
	// remoteBranch.
	Divergence(ctx context.Context, remoteBranch string) (model.Divergence, error)

	// HeadCommit returns the current HEAD commit hash.
	HeadCommit(ctx context.Context) (string, error)

	// ChangedPaths lists paths that differ between two commits.
	ChangedPaths(ctx context.Context, oldRef, newRef string) ([]string, error)

	// EnsureRemote creates or repoints the named remote at url.
	EnsureRemote(ctx context.Context, name, url string) error
}
