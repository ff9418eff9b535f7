// Package application contains the publish, sync, and retry orchestrators.
package application

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// PublishService turns one dataset record into a pull request against the
// catalog repository. It is a synchronous blocking state machine:
//
//	Validating -> Stashing -> Branching -> Writing -> Committing ->
//	Pushing -> OpeningPR -> Restoring -> Done | Failed(queued)
//
// Validation and remote-uniqueness failures are terminal and surface
// synchronously before any VCS mutation. Every failure after that is caught,
// converted into a retry task, and reported as a non-fatal "publish queued"
// outcome: the caller never crashes and local data is never lost.
type PublishService struct {
	git       driven.GitClient
	host      driven.HostClient
	tasks     driven.TaskStore
	configs   driven.ConfigStore
	history   driven.PublishLogStore
	validator driven.RecordValidator
	guard     *CloneGuard

	// now is the clock used for branch names; injectable for tests.
	now func() time.Time
}

// NewPublishService creates a PublishService with all required dependencies.
func NewPublishService(
	git driven.GitClient,
	host driven.HostClient,
	tasks driven.TaskStore,
	configs driven.ConfigStore,
	history driven.PublishLogStore,
	validator driven.RecordValidator,
	guard *CloneGuard,
) *PublishService {
	return &PublishService{
		git:       git,
		host:      host,
		tasks:     tasks,
		configs:   configs,
		history:   history,
		validator: validator,
		guard:     guard,
		now:       time.Now,
	}
}

// Publish runs the full state machine for one record. The returned result
// has exactly one of PR set (done) or Queued true (saved locally, publish
// queued); pre-VCS failures return an error and neither.
func (s *PublishService) Publish(ctx context.Context, record model.DatasetRecord) (*model.PublishResult, error) {
	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Pre-VCS checks. Configuration problems are treated the same as record
	// validation failures: terminal, fix and resubmit, never queued.
	if err := s.validator.Validate(record); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.host.FileExistsOnBranch(ctx, record.MetadataPath(), cfg.DefaultBranch)
	if err != nil {
		return nil, fmt.Errorf("remote uniqueness check: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%s already on branch %s: %w", record.MetadataPath(), cfg.DefaultBranch, driven.ErrRemoteExists)
	}

	release, err := s.guard.TryAcquire(cfg.CatalogLocalPath)
	if err != nil {
		return nil, err
	}
	defer release()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	branch := BranchName(record.ID, s.now())
	return s.runAttempt(ctx, *cfg, record, branch), nil
}

// runAttempt executes the branching-through-restore steps and converts any
// failure into a queued retry task. The caller already holds the clone guard.
//
// Cancellation is not supported mid-flight: once branching starts the
// attempt runs to completion or failure, so the attempt uses a context
// detached from the caller's cancel signal.
func (s *PublishService) runAttempt(ctx context.Context, cfg model.RepoConfig, record model.DatasetRecord, branch string) *model.PublishResult {
	opCtx := context.WithoutCancel(ctx)

	pr, stashWarning, err := s.attempt(opCtx, cfg, record, branch)
	if err != nil {
		task := s.enqueue(opCtx, record, branch, err)
		slog.Warn("publish failed, saved locally and queued for retry",
			"dataset", record.ID, "branch", branch, "task", task,
			"retryable", driven.IsRetryable(err), "error", err)
		return &model.PublishResult{
			DatasetID:    record.ID,
			Branch:       branch,
			Queued:       true,
			TaskID:       task,
			StashWarning: stashWarning,
		}
	}

	s.recordSuccess(opCtx, record, branch, pr)
	return &model.PublishResult{
		DatasetID:    record.ID,
		Branch:       branch,
		PR:           pr,
		StashWarning: stashWarning,
	}
}

// attempt performs steps 3-8 of the state machine: stash, branch, write,
// commit, push, open PR, restore. The stash restore is guaranteed: if a
// handle was created it is consumed exactly once, whatever else fails.
func (s *PublishService) attempt(ctx context.Context, cfg model.RepoConfig, record model.DatasetRecord, branch string) (pr *model.PullRequestRef, stashWarning string, err error) {
	origBranch, err := s.git.CurrentBranch(ctx)
	if err != nil {
		return nil, "", err
	}
	if origBranch == "" {
		origBranch = cfg.DefaultBranch
	}

	handle, err := s.git.StashPush(ctx, StashLabel(record.ID))
	if err != nil {
		return nil, "", fmt.Errorf("stashing working tree: %w", err)
	}

	// Restore guard: return to the user's branch and consume the stash
	// handle exactly once, regardless of which error propagates. A restore
	// conflict is surfaced as a warning, never hidden, and never turns an
	// otherwise successful publish into a failure.
	defer func() {
		if checkoutErr := s.git.Checkout(ctx, origBranch); checkoutErr != nil {
			slog.Warn("could not return to original branch", "branch", origBranch, "error", checkoutErr)
		}
		if handle == nil {
			return
		}
		if popErr := s.git.StashPop(ctx, handle); popErr != nil {
			stashWarning = fmt.Sprintf("uncommitted changes remain stashed as %q: %v", handle.Label, popErr)
			slog.Warn("stash restore failed, entry kept for manual recovery",
				"label", handle.Label, "sha", handle.SHA, "error", popErr)
		}
	}()

	if err := s.git.CreateBranch(ctx, branch, cfg.DefaultBranch); err != nil {
		return nil, "", fmt.Errorf("creating branch %s: %w", branch, err)
	}

	if err := s.writeRecord(cfg, record); err != nil {
		return nil, "", err
	}

	if err := s.git.Commit(ctx, []string{record.MetadataPath()}, CommitMessage(record)); err != nil {
		return nil, "", fmt.Errorf("committing %s: %w", record.MetadataPath(), err)
	}

	head, err := s.pushToTarget(ctx, cfg, branch)
	if err != nil {
		return nil, "", err
	}

	pr, err = s.host.CreatePullRequest(ctx, driven.PullRequestSpec{
		Base:      cfg.DefaultBranch,
		Head:      head,
		Title:     PRTitle(record),
		Body:      PRBody(record),
		Labels:    cfg.Labels,
		Reviewers: cfg.Reviewers,
	})
	if err != nil {
		return nil, "", fmt.Errorf("opening pull request: %w", err)
	}

	return pr, "", nil
}

// pushToTarget decides the push target once per attempt (central repository
// when the user has push access, fork otherwise), pushes the branch there,
// and returns the PR head reference ("branch" or "forkOwner:branch"). The
// decision is never re-evaluated mid-flow.
func (s *PublishService) pushToTarget(ctx context.Context, cfg model.RepoConfig, branch string) (string, error) {
	status, err := s.host.TestConnection(ctx)
	if err != nil {
		return "", fmt.Errorf("probing push access: %w", err)
	}

	if status.HasPushAccess {
		if err := s.git.Push(ctx, branch, "origin"); err != nil {
			return "", err
		}
		return branch, nil
	}

	forkOwner, err := s.host.EnsureFork(ctx)
	if err != nil {
		return "", fmt.Errorf("ensuring fork: %w", err)
	}
	if err := s.git.EnsureRemote(ctx, "fork", s.host.ForkRemoteURL(forkOwner)); err != nil {
		return "", err
	}
	if err := s.git.Push(ctx, branch, "fork"); err != nil {
		return "", err
	}
	return forkOwner + ":" + branch, nil
}

// writeRecord serializes the record to its catalog path inside the clone.
func (s *PublishService) writeRecord(cfg model.RepoConfig, record model.DatasetRecord) error {
	target := filepath.Join(cfg.CatalogLocalPath, filepath.FromSlash(record.MetadataPath()))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	if err := atomic.WriteFile(target, bytes.NewReader(record.Payload)); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

// enqueue persists a retry task for a failed attempt. The queue write must
// not fail the caller: if even that goes wrong, the error is logged and an
// empty task id returned; the record itself is already saved locally.
func (s *PublishService) enqueue(ctx context.Context, record model.DatasetRecord, branch string, cause error) string {
	task := model.RetryTask{
		TaskID:     uuid.NewString(),
		DatasetID:  record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		BranchName: branch,
		CreatedAt:  s.now().UTC(),
		Status:     model.TaskPending,
		LastError:  cause.Error(),
	}
	if err := s.tasks.Add(ctx, task); err != nil {
		slog.Error("could not persist retry task", "dataset", record.ID, "error", err)
		return ""
	}
	return task.TaskID
}

// recordSuccess appends the publish to the durable history. Best effort: the
// pull request already exists.
func (s *PublishService) recordSuccess(ctx context.Context, record model.DatasetRecord, branch string, pr *model.PullRequestRef) {
	err := s.history.Append(ctx, model.PublishLogEntry{
		DatasetID: record.ID,
		Branch:    branch,
		PRNumber:  pr.Number,
		PRURL:     pr.URL,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		slog.Warn("could not record publish in history", "dataset", record.ID, "error", err)
	}
}
