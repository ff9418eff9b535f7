package driven

import (
	"context"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// TaskStore defines the driven port for the durable retry queue. A task is
// removed only by ClearCompleted, never silently dropped, and the store
// must survive process restart.
type TaskStore interface {
	// Add persists a new task.
	Add(ctx context.Context, task model.RetryTask) error

	// Get returns the task with the given id, or (nil, nil) if absent.
	Get(ctx context.Context, taskID string) (*model.RetryTask, error)

	// List returns all tasks ordered by creation time.
	List(ctx context.Context) ([]model.RetryTask, error)

	// Update replaces the stored task with the same TaskID.
	Update(ctx context.Context, task model.RetryTask) error

	// ClearCompleted removes only completed tasks and returns how many
	// were removed.
	ClearCompleted(ctx context.Context) (int, error)
}
