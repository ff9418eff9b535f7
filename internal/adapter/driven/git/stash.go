package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// StashPush stashes uncommitted changes (including untracked files) under the
// given label. Returns (nil, nil) when the tree is already clean.
//
// The handle captures the stash's immutable SHA rather than the symbolic
// stash@{0}, which is repositioned whenever another stash is created.
func (c *Client) StashPush(ctx context.Context, label string) (*model.StashHandle, error) {
	clean, err := c.IsClean(ctx)
	if err != nil {
		return nil, err
	}
	if clean {
		return nil, nil
	}

	if _, err := c.run(ctx, "stash", "push", "--include-untracked", "-m", label); err != nil {
		return nil, fmt.Errorf("stash push: %w", err)
	}

	sha, err := c.run(ctx, "rev-parse", "stash@{0}")
	if err != nil {
		// The stash exists but cannot be addressed by SHA; surface loudly so
		// the user can recover it from the stash list by hand.
		return nil, fmt.Errorf("stash created but its ref could not be resolved, recover with 'git stash list': %w", err)
	}

	slog.Debug("stash created", "label", label, "sha", sha)
	return &model.StashHandle{SHA: sha, Label: label}, nil
}

// StashPop restores and drops the stash identified by the handle. On a
// restore conflict it returns ErrStashConflict and keeps the stash entry so
// nothing is lost; the caller reports the inconsistent tree, never hides it.
func (c *Client) StashPop(ctx context.Context, handle *model.StashHandle) error {
	if handle == nil {
		return errors.New("stash pop: nil handle")
	}

	// Apply by SHA, then drop only after a clean apply. "stash pop" would
	// drop the entry even on partial failure paths in older git versions.
	out, err := c.run(ctx, "stash", "apply", handle.SHA)
	if err != nil {
		if strings.Contains(out, "CONFLICT") || strings.Contains(strings.ToLower(out), "conflict") {
			return fmt.Errorf("restoring stash %q: %w", handle.Label, driven.ErrStashConflict)
		}
		return fmt.Errorf("stash apply %s: %w", handle.SHA, err)
	}

	if ref, err := c.stashRefFor(ctx, handle.SHA); err == nil && ref != "" {
		if _, err := c.run(ctx, "stash", "drop", ref); err != nil {
			// The changes are restored; a leftover stash entry is harmless.
			slog.Warn("stash applied but not dropped", "sha", handle.SHA, "error", err)
		}
	}

	return nil
}

// stashRefFor resolves a stash SHA back to its current stash@{n} position.
// "git stash drop" only accepts stash references, and the position may have
// shifted if other stashes were created since the handle was taken.
func (c *Client) stashRefFor(ctx context.Context, sha string) (string, error) {
	out, err := c.run(ctx, "stash", "list", "--format=%H")
	if err != nil {
		return "", fmt.Errorf("stash list: %w", err)
	}
	for i, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == sha {
			return fmt.Sprintf("stash@{%d}", i), nil
		}
	}
	return "", nil
}
