package model

import "time"

// Divergence counts commits unique to each side of a tracked branch pair.
type Divergence struct {
	// Ahead is the number of local commits the remote does not have.
	Ahead int

	// Behind is the number of remote commits the local branch does not have.
	Behind int
}

// PullRequestRef identifies an opened pull request.
type PullRequestRef struct {
	Number int
	URL    string
}

// ConnectionStatus is the result of probing the host API once per publish
// attempt. The push-target decision derived from it is never re-evaluated
// mid-flow.
type ConnectionStatus struct {
	OK            bool
	HasPushAccess bool
}

// PublishResult reports the outcome of one publish attempt. Exactly one of
// the following holds: PR is set (done), or Queued is true with TaskID set
// (saved locally, publish queued).
type PublishResult struct {
	DatasetID string
	Branch    string
	PR        *PullRequestRef
	Queued    bool
	TaskID    string
	// StashWarning is set when the stash restore failed after an otherwise
	// successful flow; the stash entry is kept for manual recovery.
	StashWarning string
}

// SyncResult reports the outcome of one sync.
type SyncResult struct {
	UpToDate     bool
	OldCommit    string
	NewCommit    string
	ChangedPaths []string
	Reindexed    bool
	// StashWarning is set when the post-merge stash restore conflicted.
	// The merge itself succeeded, so the sync is not marked failed.
	StashWarning string
}

// PublishLogEntry is the durable record of a completed publish.
type PublishLogEntry struct {
	ID        int64
	DatasetID string
	Branch    string
	PRNumber  int
	PRURL     string
	CreatedAt time.Time
}
