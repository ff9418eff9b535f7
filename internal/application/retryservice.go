package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// RetryService replays queued publish attempts. A retry re-runs the publish
// from the branching step with the task's captured branch name and payload;
// the validation and remote-uniqueness steps already passed when the task
// was created.
type RetryService struct {
	publisher *PublishService
	tasks     driven.TaskStore
	configs   driven.ConfigStore
}

// NewRetryService creates a RetryService. It shares the PublishService so a
// replay follows exactly the same branching-through-restore path.
func NewRetryService(publisher *PublishService, tasks driven.TaskStore, configs driven.ConfigStore) *RetryService {
	return &RetryService{publisher: publisher, tasks: tasks, configs: configs}
}

// List returns all queued tasks ordered by creation time.
func (s *RetryService) List(ctx context.Context) ([]model.RetryTask, error) {
	return s.tasks.List(ctx)
}

// ClearCompleted removes only completed tasks.
func (s *RetryService) ClearCompleted(ctx context.Context) (int, error) {
	return s.tasks.ClearCompleted(ctx)
}

// Retry replays the task with the given id. Success transitions the task to
// completed; failure increments retry_count by exactly one, updates
// last_error, and marks the task failed so it can be retried again. The
// task itself is never removed here.
func (s *RetryService) Retry(ctx context.Context, taskID string) (*model.PublishResult, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	if task.Status == model.TaskCompleted {
		return nil, fmt.Errorf("task %s already completed", taskID)
	}

	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	release, err := s.publisher.guard.TryAcquire(cfg.CatalogLocalPath)
	if err != nil {
		return nil, err
	}
	defer release()

	task.Status = model.TaskRetrying
	if err := s.tasks.Update(ctx, *task); err != nil {
		return nil, fmt.Errorf("marking task retrying: %w", err)
	}

	// As with a first publish, a started replay runs to completion.
	opCtx := context.WithoutCancel(ctx)
	record := task.Record()

	pr, stashWarning, attemptErr := s.publisher.attempt(opCtx, *cfg, record, task.BranchName)

	task.RetryCount++
	if attemptErr != nil {
		task.Status = model.TaskFailed
		task.LastError = attemptErr.Error()
		if err := s.tasks.Update(opCtx, *task); err != nil {
			slog.Error("could not persist failed retry state", "task", task.TaskID, "error", err)
		}
		slog.Warn("retry failed", "task", task.TaskID, "dataset", task.DatasetID,
			"retry_count", task.RetryCount, "error", attemptErr)
		return &model.PublishResult{
			DatasetID:    task.DatasetID,
			Branch:       task.BranchName,
			Queued:       true,
			TaskID:       task.TaskID,
			StashWarning: stashWarning,
		}, nil
	}

	task.Status = model.TaskCompleted
	task.LastError = ""
	if err := s.tasks.Update(opCtx, *task); err != nil {
		slog.Error("could not persist completed retry state", "task", task.TaskID, "error", err)
	}

	s.publisher.recordSuccess(opCtx, record, task.BranchName, pr)
	return &model.PublishResult{
		DatasetID:    task.DatasetID,
		Branch:       task.BranchName,
		PR:           pr,
		StashWarning: stashWarning,
	}, nil
}

// RetryAll replays every task that is not completed, in creation order,
// stopping early only on context cancellation between tasks.
func (s *RetryService) RetryAll(ctx context.Context) ([]model.PublishResult, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	var results []model.PublishResult
	for _, task := range tasks {
		if task.Status == model.TaskCompleted {
			continue
		}
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		result, err := s.Retry(ctx, task.TaskID)
		if err != nil {
			return results, fmt.Errorf("retrying task %s: %w", task.TaskID, err)
		}
		results = append(results, *result)
	}
	return results, nil
}
