package driven

import (
	"context"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// PullRequestSpec describes a pull request to open against the catalog
// repository. Head is either "branch" (same-repo) or "forkOwner:branch"
// (cross-repository).
type PullRequestSpec struct {
	Base      string
	Head      string
	Title     string
	Body      string
	Labels    []string
	Reviewers []string
}

// HostClient defines the driven port for the remote host API. Every call
// applies a bounded timeout; timeouts surface as ErrNetwork (or
// ErrForkTimeout for fork-readiness polling).
type HostClient interface {
	// TestConnection probes the catalog repository once per publish attempt
	// and reports whether the authenticated user has push access. The
	// push-target decision derived from this is never re-evaluated mid-flow.
	TestConnection(ctx context.Context) (model.ConnectionStatus, error)

	// FileExistsOnBranch reports whether path exists on the given branch
	// of the catalog repository. A 404 is false, not an error.
	FileExistsOnBranch(ctx context.Context, path, branch string) (bool, error)

	// EnsureFork creates a fork of the catalog repository for the
	// authenticated user if none exists, polls until it is ready, and
	// returns the fork owner. Idempotent.
	EnsureFork(ctx context.Context) (string, error)

	// ForkRemoteURL returns the clone URL for the named fork owner,
	// used to wire the fork as a git remote.
	ForkRemoteURL(forkOwner string) string

	// CreatePullRequest opens a pull request and applies the configured
	// labels and reviewer requests. Label and reviewer failures are
	// reported as warnings by the adapter, never as errors.
	CreatePullRequest(ctx context.Context, spec PullRequestSpec) (*model.PullRequestRef, error)
}
