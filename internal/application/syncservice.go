package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// SyncService brings others' catalog changes into the local clone. Always
// synchronous and user-initiated; there is no queueing. A failed sync is
// simply reported and rerun manually.
type SyncService struct {
	git     driven.GitClient
	host    driven.HostClient
	configs driven.ConfigStore
	indexer driven.CatalogIndexer
	guard   *CloneGuard
}

// NewSyncService creates a SyncService with all required dependencies.
func NewSyncService(
	git driven.GitClient,
	host driven.HostClient,
	configs driven.ConfigStore,
	indexer driven.CatalogIndexer,
	guard *CloneGuard,
) *SyncService {
	return &SyncService{
		git:     git,
		host:    host,
		configs: configs,
		indexer: indexer,
		guard:   guard,
	}
}

// Sync fetches the catalog remote and fast-forwards the current branch.
// On diverged history it aborts with ErrDiverged before fetching anything
// and leaves the tree untouched: resolving divergence is a manual decision,
// never a silent history rewrite.
func (s *SyncService) Sync(ctx context.Context) (*model.SyncResult, error) {
	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Reachability first: a dead network should fail fast, before any
	// guard acquisition or tree inspection.
	if _, err := s.host.TestConnection(ctx); err != nil {
		return nil, fmt.Errorf("catalog host unreachable: %w", err)
	}

	release, err := s.guard.TryAcquire(cfg.CatalogLocalPath)
	if err != nil {
		return nil, err
	}
	defer release()

	remoteBranch, err := s.trackedRemoteBranch(ctx, *cfg)
	if err != nil {
		return nil, err
	}

	div, err := s.git.Divergence(ctx, remoteBranch)
	if err != nil {
		return nil, fmt.Errorf("divergence check against %s: %w", remoteBranch, err)
	}
	if div.Ahead > 0 {
		return nil, fmt.Errorf("local branch is %d commit(s) ahead of %s: %w", div.Ahead, remoteBranch, driven.ErrDiverged)
	}

	// Fetch and merge run detached from the caller's cancel signal; once
	// started, a sync completes or fails on its own.
	opCtx := context.WithoutCancel(ctx)

	if err := s.git.Fetch(opCtx, "origin"); err != nil {
		return nil, fmt.Errorf("fetching origin: %w", err)
	}

	div, err = s.git.Divergence(opCtx, remoteBranch)
	if err != nil {
		return nil, fmt.Errorf("divergence check after fetch: %w", err)
	}
	if div.Behind == 0 {
		slog.Info("catalog already up to date")
		return &model.SyncResult{UpToDate: true}, nil
	}

	return s.fastForward(opCtx, remoteBranch)
}

// fastForward stashes local edits if needed, fast-forwards the current
// branch, restores the stash, and signals the catalog indexer when catalog
// metadata changed.
func (s *SyncService) fastForward(ctx context.Context, remoteBranch string) (*model.SyncResult, error) {
	oldCommit, err := s.git.HeadCommit(ctx)
	if err != nil {
		return nil, err
	}

	handle, err := s.git.StashPush(ctx, "sync")
	if err != nil {
		return nil, fmt.Errorf("stashing working tree: %w", err)
	}

	result := &model.SyncResult{OldCommit: oldCommit}

	mergeErr := s.git.MergeFastForwardOnly(ctx, remoteBranch)

	// The stash handle is consumed exactly once whatever the merge did.
	// A restore conflict after a successful merge is a warning, not a sync
	// failure: the merge itself landed, and the stash entry is kept.
	if handle != nil {
		if popErr := s.git.StashPop(ctx, handle); popErr != nil {
			result.StashWarning = fmt.Sprintf("uncommitted changes remain stashed as %q: %v", handle.Label, popErr)
			slog.Warn("stash restore failed after sync, entry kept for manual recovery",
				"label", handle.Label, "sha", handle.SHA, "error", popErr)
		}
	}

	if mergeErr != nil {
		return nil, fmt.Errorf("fast-forwarding to %s: %w", remoteBranch, mergeErr)
	}

	newCommit, err := s.git.HeadCommit(ctx)
	if err != nil {
		return nil, err
	}
	result.NewCommit = newCommit

	changed, err := s.git.ChangedPaths(ctx, oldCommit, newCommit)
	if err != nil {
		return nil, fmt.Errorf("listing changed paths: %w", err)
	}
	result.ChangedPaths = changed

	if touchesCatalog(changed) {
		if err := s.indexer.Reindex(ctx, changed); err != nil {
			slog.Warn("catalog reindex signal failed", "error", err)
		} else {
			result.Reindexed = true
		}
	}

	return result, nil
}

// trackedRemoteBranch resolves the remote ref the current branch syncs
// from: origin/<current branch>, falling back to the catalog default branch
// when HEAD is detached.
func (s *SyncService) trackedRemoteBranch(ctx context.Context, cfg model.RepoConfig) (string, error) {
	branch, err := s.git.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}
	if branch == "" {
		branch = cfg.DefaultBranch
	}
	return "origin/" + branch, nil
}

// touchesCatalog reports whether any changed path is catalog metadata.
func touchesCatalog(paths []string) bool {
	for _, p := range paths {
		if strings.HasPrefix(p, "data/") {
			return true
		}
	}
	return false
}
