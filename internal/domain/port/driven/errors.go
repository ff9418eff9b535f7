package driven

import (
	"errors"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// Sentinel errors shared by the driven ports. Callers classify failures with
// errors.Is; adapters wrap these with context via fmt.Errorf("...: %w", err).
var (
	// ErrAuth indicates an expired or invalid credential. Retryable after
	// the credential is fixed.
	ErrAuth = errors.New("authentication failed")

	// ErrNetwork indicates a transient transport failure, including bounded
	// timeouts on host API calls. Retryable.
	ErrNetwork = errors.New("network unreachable")

	// ErrStashConflict indicates a stash restore hit a conflict. The stash
	// entry is kept for manual recovery; never auto-resolved.
	ErrStashConflict = errors.New("stash restore conflict")

	// ErrFastForward indicates a fast-forward-only merge was refused because
	// the histories diverged.
	ErrFastForward = errors.New("fast-forward not possible")

	// ErrDiverged indicates the local tracked branch has commits the remote
	// does not. Requires manual resolution; sync never rewrites history.
	ErrDiverged = errors.New("local and remote history diverged")

	// ErrForkTimeout indicates the fork did not become ready within the
	// polling deadline. Retryable.
	ErrForkTimeout = errors.New("fork creation timed out")

	// ErrRemoteExists indicates the record already exists on the remote
	// default branch. Terminal; never queued.
	ErrRemoteExists = errors.New("dataset already exists on remote")

	// ErrBusy indicates another publish or sync holds the working tree.
	ErrBusy = errors.New("another operation is in progress on this clone")

	// ErrNoCredential indicates no token is stored for the host.
	ErrNoCredential = errors.New("no credential stored")

	// ErrNoConfig indicates the repository configuration has not been set.
	ErrNoConfig = errors.New("repository not configured")
)

// IsRetryable reports whether a failure belongs to the retryable class:
// git state may be partial (a rerun fixes it), credentials can be refreshed,
// and network and fork-readiness failures are transient. Validation and
// remote-duplicate failures are not retryable; the input has to change.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrAuth),
		errors.Is(err, ErrNetwork),
		errors.Is(err, ErrStashConflict),
		errors.Is(err, ErrFastForward),
		errors.Is(err, ErrForkTimeout):
		return true
	}
	var gitErr *model.GitError
	return errors.As(err, &gitErr)
}
