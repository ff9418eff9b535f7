package git

import (
	"context"
	"fmt"
	"strings"
)

// Push pushes the branch to the named remote with upstream tracking.
// Auth and network failures come back as the port sentinels via output
// classification in run.
func (c *Client) Push(ctx context.Context, branch, remote string) error {
	if remote == "" {
		remote = "origin"
	}
	if _, err := c.run(ctx, "push", "-u", remote, branch); err != nil {
		return fmt.Errorf("push %s to %s: %w", branch, remote, err)
	}
	return nil
}

// Fetch updates remote-tracking refs from the named remote.
func (c *Client) Fetch(ctx context.Context, remote string) error {
	if remote == "" {
		remote = "origin"
	}
	if _, err := c.run(ctx, "fetch", remote); err != nil {
		return fmt.Errorf("fetch %s: %w", remote, err)
	}
	return nil
}

// MergeFastForwardOnly merges remoteBranch into the current branch. With
// --ff-only git never creates a merge commit; diverged histories surface
// as ErrFastForward through output classification.
func (c *Client) MergeFastForwardOnly(ctx context.Context, remoteBranch string) error {
	if _, err := c.run(ctx, "merge", "--ff-only", remoteBranch); err != nil {
		return fmt.Errorf("fast-forward merge of %s: %w", remoteBranch, err)
	}
	return nil
}

// EnsureRemote creates the named remote pointing at url, or repoints it if
// it already exists with a different URL.
func (c *Client) EnsureRemote(ctx context.Context, name, url string) error {
	out, err := c.run(ctx, "remote", "get-url", name)
	if err != nil {
		if _, addErr := c.run(ctx, "remote", "add", name, url); addErr != nil {
			return fmt.Errorf("add remote %s: %w", name, addErr)
		}
		return nil
	}

	if strings.TrimSpace(out) != url {
		if _, err := c.run(ctx, "remote", "set-url", name, url); err != nil {
			return fmt.Errorf("repoint remote %s: %w", name, err)
		}
	}
	return nil
}
