// Package github implements the HostClient port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HostClient = (*Client)(nil)

// defaultOpTimeout bounds every host API call. Timeouts surface as
// ErrNetwork, or ErrForkTimeout for the fork-readiness loop.
const defaultOpTimeout = 30 * time.Second

// Client implements the driven.HostClient port against one catalog repository.
type Client struct {
	gh        *gh.Client
	cfg       model.RepoConfig
	opTimeout time.Duration

	forkPollInterval time.Duration
	forkDeadline     time.Duration
}

// NewClient creates a GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string, cfg model.RepoConfig) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:               client,
		cfg:              cfg,
		opTimeout:        defaultOpTimeout,
		forkPollInterval: 2 * time.Second,
		forkDeadline:     60 * time.Second,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server and tight fork-poll timings.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, cfg model.RepoConfig) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:               client,
		cfg:              cfg,
		opTimeout:        5 * time.Second,
		forkPollInterval: 10 * time.Millisecond,
		forkDeadline:     250 * time.Millisecond,
	}, nil
}

// TestConnection probes the catalog repository and reports whether the
// authenticated user has push access. Called once per publish attempt; the
// push-target decision derived from it is never re-evaluated mid-flow.
func (c *Client) TestConnection(ctx context.Context) (model.ConnectionStatus, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	repo, resp, err := c.gh.Repositories.Get(ctx, c.cfg.Owner, c.cfg.Repo)
	if err != nil {
		return model.ConnectionStatus{}, fmt.Errorf("probing %s: %w", c.cfg.FullName(), classify(resp, err))
	}

	perms := repo.GetPermissions()
	status := model.ConnectionStatus{
		OK:            true,
		HasPushAccess: perms.GetPush(),
	}

	slog.Debug("connection probe", "repo", c.cfg.FullName(), "push_access", status.HasPushAccess)
	return status, nil
}

// FileExistsOnBranch reports whether path exists on the given branch of the
// catalog repository. A 404 is false, not an error.
func (c *Client) FileExistsOnBranch(ctx context.Context, path, branch string) (bool, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	_, _, resp, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, path,
		&gh.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("checking %s on %s: %w", path, branch, classify(resp, err))
	}

	return true, nil
}

// opCtx applies the per-call timeout on top of the caller's context.
func (c *Client) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

// classify maps transport and API failures onto the port sentinels. 401/403
// mean a bad or expired credential; everything else is treated as a
// transient network failure.
func classify(resp *gh.Response, err error) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", driven.ErrAuth, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", driven.ErrNetwork)
	}
	return fmt.Errorf("%w: %v", driven.ErrNetwork, err)
}
