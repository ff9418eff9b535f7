package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// EnsureFork creates a fork of the catalog repository for the authenticated
// user if none exists and polls until it is ready. Forking is asynchronous on
// the host side; the POST returns 202 while the copy is still in progress.
// Idempotent: forking an already-forked repository returns the existing fork.
func (c *Client) EnsureFork(ctx context.Context) (string, error) {
	createCtx, cancel := c.opCtx(ctx)
	fork, resp, err := c.gh.Repositories.CreateFork(createCtx, c.cfg.Owner, c.cfg.Repo, nil)
	cancel()

	// go-github signals the 202 accepted-but-scheduled case with a
	// dedicated error type; the fork body is still populated.
	var accepted *gh.AcceptedError
	if err != nil && !errors.As(err, &accepted) {
		return "", fmt.Errorf("forking %s: %w", c.cfg.FullName(), classify(resp, err))
	}

	forkOwner := c.cfg.Username
	if fork != nil && fork.GetOwner().GetLogin() != "" {
		forkOwner = fork.GetOwner().GetLogin()
	}

	if err := c.waitForkReady(ctx, forkOwner); err != nil {
		return "", err
	}

	slog.Debug("fork ready", "owner", forkOwner, "repo", c.cfg.Repo)
	return forkOwner, nil
}

// waitForkReady polls the fork until it answers GET repository, or the
// deadline expires with ErrForkTimeout.
func (c *Client) waitForkReady(ctx context.Context, forkOwner string) error {
	deadline := time.Now().Add(c.forkDeadline)

	for {
		pollCtx, cancel := c.opCtx(ctx)
		_, _, err := c.gh.Repositories.Get(pollCtx, forkOwner, c.cfg.Repo)
		cancel()
		if err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return fmt.Errorf("waiting for fork %s/%s: %w", forkOwner, c.cfg.Repo, driven.ErrForkTimeout)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("fork %s/%s not ready after %s: %w", forkOwner, c.cfg.Repo, c.forkDeadline, driven.ErrForkTimeout)
		}

		select {
		case <-time.After(c.forkPollInterval):
		case <-ctx.Done():
			return fmt.Errorf("waiting for fork %s/%s: %w", forkOwner, c.cfg.Repo, driven.ErrForkTimeout)
		}
	}
}

// ForkRemoteURL returns the HTTPS clone URL for the named fork owner.
func (c *Client) ForkRemoteURL(forkOwner string) string {
	host := c.cfg.Host
	if host == "" {
		host = "github.com"
	}
	return fmt.Sprintf("https://%s/%s/%s.git", host, forkOwner, c.cfg.Repo)
}
