package model

import "fmt"

// ValidationError reports a local, pre-VCS problem with a record or the
// repository configuration. It is terminal: the user fixes the input and
// resubmits; it is never converted into a retry task.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// GitError wraps a non-zero git exit with the command and its output.
// Retryable by re-running the whole publish, since branch or commit state
// may be partial.
type GitError struct {
	Args   []string
	Output string
	Err    error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %v: %v", e.Args, e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *GitError) Unwrap() error {
	return e.Err
}
