package git

import (
	"context"
	"fmt"
)

// CreateBranch creates name from the given base and checks it out. A
// pre-existing branch with the same name is deleted first so that repeated
// publish attempts for the same branch name never fail on "already exists".
func (c *Client) CreateBranch(ctx context.Context, name, from string) error {
	if c.branchExists(ctx, name) {
		if _, err := c.run(ctx, "branch", "-D", name); err != nil {
			return fmt.Errorf("delete stale branch %s: %w", name, err)
		}
	}

	if _, err := c.run(ctx, "checkout", "-b", name, from); err != nil {
		return fmt.Errorf("create branch %s from %s: %w", name, from, err)
	}
	return nil
}

// Checkout switches the working tree to an existing branch.
func (c *Client) Checkout(ctx context.Context, branch string) error {
	if _, err := c.run(ctx, "checkout", branch); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	return nil
}

// Commit stages the given paths and commits them with the message.
func (c *Client) Commit(ctx context.Context, paths []string, message string) error {
	addArgs := append([]string{"add", "--"}, paths...)
	if _, err := c.run(ctx, addArgs...); err != nil {
		return fmt.Errorf("stage %v: %w", paths, err)
	}

	if _, err := c.run(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// branchExists reports whether a local branch with the given name exists.
func (c *Client) branchExists(ctx context.Context, name string) bool {
	_, err := c.run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}
