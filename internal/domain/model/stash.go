package model

// StashHandle identifies a stash entry created before a publish or sync
// mutates the working tree. The SHA is captured at creation time because
// stash@{0} is repositioned by later stashes while the SHA is immutable.
//
// A handle must be consumed by exactly one restore attempt. If the restore
// fails the underlying stash entry is kept for manual recovery.
type StashHandle struct {
	// SHA is the immutable commit hash of the stash entry.
	SHA string

	// Label is the message the stash was created with, e.g. "publish-weather-2024".
	Label string
}
