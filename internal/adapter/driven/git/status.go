package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// CurrentBranch returns the checked-out branch name, or "" for detached HEAD.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		if strings.Contains(out, "not a symbolic ref") {
			return "", nil
		}
		return "", fmt.Errorf("current branch: %w", err)
	}
	return out, nil
}

// IsClean reports whether the working tree has no uncommitted changes,
// including untracked files.
func (c *Client) IsClean(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("status: %w", err)
	}
	return out == "", nil
}

// HeadCommit returns the current HEAD commit hash.
func (c *Client) HeadCommit(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return out, nil
}

// Divergence counts commits unique to the current branch and to remoteBranch.
func (c *Client) Divergence(ctx context.Context, remoteBranch string) (model.Divergence, error) {
	var d model.Divergence

	ahead, err := c.run(ctx, "rev-list", "--count", remoteBranch+"..HEAD")
	if err != nil {
		return d, fmt.Errorf("count ahead commits: %w", err)
	}
	d.Ahead, err = strconv.Atoi(ahead)
	if err != nil {
		return d, fmt.Errorf("parse ahead count %q: %w", ahead, err)
	}

	behind, err := c.run(ctx, "rev-list", "--count", "HEAD.."+remoteBranch)
	if err != nil {
		return d, fmt.Errorf("count behind commits: %w", err)
	}
	d.Behind, err = strconv.Atoi(behind)
	if err != nil {
		return d, fmt.Errorf("parse behind count %q: %w", behind, err)
	}

	return d, nil
}

// ChangedPaths lists paths that differ between two commits.
func (c *Client) ChangedPaths(ctx context.Context, oldRef, newRef string) ([]string, error) {
	out, err := c.run(ctx, "diff", "--name-only", oldRef, newRef)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", oldRef, newRef, err)
	}
	if out == "" {
		return nil, nil
	}

	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}
