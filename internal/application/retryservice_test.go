package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

func queuedTask(status model.TaskStatus, createdAt time.Time) model.RetryTask {
	return model.RetryTask{
		TaskID:     "task-1",
		DatasetID:  "weather-2024",
		Name:       "Weather Station Readings 2024",
		Payload:    testRecord().Payload,
		BranchName: "add/weather-2024-20251004-1530",
		CreatedAt:  createdAt,
		Status:     status,
		RetryCount: 1,
		LastError:  "network unreachable",
	}
}

type retryFixture struct {
	*publishFixture
	retrier *RetryService
}

func newRetryFixture(t *testing.T) *retryFixture {
	t.Helper()
	pf := newPublishFixture(t)
	return &retryFixture{
		publishFixture: pf,
		retrier:        NewRetryService(pf.svc, pf.tasks, pf.configs),
	}
}

func TestRetry_SuccessCompletesTask(t *testing.T) {
	f := newRetryFixture(t)
	require.NoError(t, f.tasks.Add(context.Background(), queuedTask(model.TaskFailed, fixedNow)))

	result, err := f.retrier.Retry(context.Background(), "task-1")
	require.NoError(t, err)

	require.NotNil(t, result.PR)
	assert.False(t, result.Queued)
	// The replay reuses the originally captured branch name.
	assert.Equal(t, "add/weather-2024-20251004-1530", result.Branch)

	task := f.tasks.only("task-1")
	assert.Equal(t, model.TaskCompleted, task.Status)
	assert.Equal(t, 2, task.RetryCount)
	assert.Empty(t, task.LastError)

	// No second task was created; success landed in history.
	assert.Equal(t, 1, f.tasks.adds)
	require.Len(t, f.history.entries, 1)
}

func TestRetry_FailureIncrementsCountOnce(t *testing.T) {
	f := newRetryFixture(t)
	require.NoError(t, f.tasks.Add(context.Background(), queuedTask(model.TaskPending, fixedNow)))
	f.git.pushFn = func(string, string) error { return driven.ErrNetwork }

	result, err := f.retrier.Retry(context.Background(), "task-1")
	require.NoError(t, err, "a failed replay is a queued outcome, not an error")

	assert.True(t, result.Queued)
	assert.Equal(t, "task-1", result.TaskID)

	task := f.tasks.only("task-1")
	assert.Equal(t, model.TaskFailed, task.Status)
	assert.Equal(t, 2, task.RetryCount)
	assert.Contains(t, task.LastError, driven.ErrNetwork.Error())
	assert.Equal(t, 1, f.tasks.adds, "a retry never creates a second task")
}

func TestRetry_UnknownTask(t *testing.T) {
	f := newRetryFixture(t)

	_, err := f.retrier.Retry(context.Background(), "no-such-task")
	assert.ErrorContains(t, err, "not found")
}

func TestRetry_CompletedTaskRefused(t *testing.T) {
	f := newRetryFixture(t)
	require.NoError(t, f.tasks.Add(context.Background(), queuedTask(model.TaskCompleted, fixedNow)))

	_, err := f.retrier.Retry(context.Background(), "task-1")
	assert.ErrorContains(t, err, "already completed")
}

func TestRetry_BusyCloneRefused(t *testing.T) {
	f := newRetryFixture(t)
	require.NoError(t, f.tasks.Add(context.Background(), queuedTask(model.TaskPending, fixedNow)))

	release, err := f.svc.guard.TryAcquire(f.configs.cfg.CatalogLocalPath)
	require.NoError(t, err)
	defer release()

	_, err = f.retrier.Retry(context.Background(), "task-1")
	assert.ErrorIs(t, err, driven.ErrBusy)
}

func TestRetryAll_SkipsCompleted(t *testing.T) {
	f := newRetryFixture(t)

	first := queuedTask(model.TaskFailed, fixedNow)
	second := queuedTask(model.TaskCompleted, fixedNow.Add(time.Minute))
	second.TaskID = "task-2"
	require.NoError(t, f.tasks.Add(context.Background(), first))
	require.NoError(t, f.tasks.Add(context.Background(), second))

	results, err := f.retrier.RetryAll(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "weather-2024", results[0].DatasetID)
	assert.Equal(t, model.TaskCompleted, f.tasks.only("task-1").Status)
	assert.Equal(t, model.TaskCompleted, f.tasks.only("task-2").Status)
}

func TestClearCompleted_RemovesOnlyCompleted(t *testing.T) {
	f := newRetryFixture(t)

	done := queuedTask(model.TaskCompleted, fixedNow)
	pending := queuedTask(model.TaskPending, fixedNow.Add(time.Minute))
	pending.TaskID = "task-2"
	require.NoError(t, f.tasks.Add(context.Background(), done))
	require.NoError(t, f.tasks.Add(context.Background(), pending))

	removed, err := f.retrier.ClearCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	remaining, err := f.retrier.List(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "task-2", remaining[0].TaskID)
}
