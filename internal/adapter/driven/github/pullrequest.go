package github

import (
	"context"
	"fmt"
	"log/slog"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// CreatePullRequest opens a pull request against the catalog repository and
// applies the configured labels and reviewer requests. Labels and reviewers
// are decoration: their failures are logged as warnings, never returned,
// since the pull request already exists at that point.
func (c *Client) CreatePullRequest(ctx context.Context, spec driven.PullRequestSpec) (*model.PullRequestRef, error) {
	createCtx, cancel := c.opCtx(ctx)
	defer cancel()

	pr, resp, err := c.gh.PullRequests.Create(createCtx, c.cfg.Owner, c.cfg.Repo, &gh.NewPullRequest{
		Title: gh.Ptr(spec.Title),
		Head:  gh.Ptr(spec.Head),
		Base:  gh.Ptr(spec.Base),
		Body:  gh.Ptr(spec.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("opening pull request %q: %w", spec.Title, classify(resp, err))
	}

	ref := &model.PullRequestRef{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
	}

	if len(spec.Labels) > 0 {
		labelCtx, cancel := c.opCtx(ctx)
		_, _, err := c.gh.Issues.AddLabelsToIssue(labelCtx, c.cfg.Owner, c.cfg.Repo, ref.Number, spec.Labels)
		cancel()
		if err != nil {
			slog.Warn("could not apply labels to pull request", "pr", ref.Number, "labels", spec.Labels, "error", err)
		}
	}

	if len(spec.Reviewers) > 0 {
		revCtx, cancel := c.opCtx(ctx)
		_, _, err := c.gh.PullRequests.RequestReviewers(revCtx, c.cfg.Owner, c.cfg.Repo, ref.Number,
			gh.ReviewersRequest{Reviewers: spec.Reviewers})
		cancel()
		if err != nil {
			slog.Warn("could not request reviewers", "pr", ref.Number, "reviewers", spec.Reviewers, "error", err)
		}
	}

	slog.Info("pull request opened", "pr", ref.Number, "url", ref.URL)
	return ref, nil
}
