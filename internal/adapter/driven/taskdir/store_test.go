package taskdir

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

func newTask(id string, createdAt time.Time, status model.TaskStatus) model.RetryTask {
	return model.RetryTask{
		TaskID:     id,
		DatasetID:  "weather-2024",
		Name:       "Weather Station Readings 2024",
		Payload:    []byte(`{"id":"weather-2024"}`),
		BranchName: "add/weather-2024-20251004-1530",
		CreatedAt:  createdAt,
		Status:     status,
		LastError:  "network unreachable",
	}
}

func TestStore_AddGetRoundtrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	want := newTask("task-1", time.Date(2025, 10, 4, 15, 30, 0, 0, time.UTC), model.TaskPending)
	require.NoError(t, store.Add(ctx, want))

	got, err := store.Get(ctx, "task-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStore_GetAbsent(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListOrderedByCreation(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	base := time.Date(2025, 10, 4, 15, 30, 0, 0, time.UTC)
	require.NoError(t, store.Add(ctx, newTask("task-c", base.Add(2*time.Minute), model.TaskPending)))
	require.NoError(t, store.Add(ctx, newTask("task-a", base, model.TaskPending)))
	require.NoError(t, store.Add(ctx, newTask("task-b", base.Add(time.Minute), model.TaskFailed)))

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "task-a", tasks[0].TaskID)
	assert.Equal(t, "task-b", tasks[1].TaskID)
	assert.Equal(t, "task-c", tasks[2].TaskID)
}

func TestStore_ListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, newTask("task-1", time.Now().UTC(), model.TaskPending)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not a task"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestStore_Update(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	task := newTask("task-1", time.Now().UTC().Truncate(time.Second), model.TaskPending)
	require.NoError(t, store.Add(ctx, task))

	task.Status = model.TaskFailed
	task.RetryCount = 3
	require.NoError(t, store.Update(ctx, task))

	got, err := store.Get(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, model.TaskFailed, got.Status)
	assert.Equal(t, 3, got.RetryCount)

	t.Run("updating an absent task fails", func(t *testing.T) {
		ghost := newTask("ghost", time.Now().UTC(), model.TaskPending)
		assert.Error(t, store.Update(ctx, ghost))
	})
}

func TestStore_ClearCompleted(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Add(ctx, newTask("task-done", now, model.TaskCompleted)))
	require.NoError(t, store.Add(ctx, newTask("task-pending", now, model.TaskPending)))
	require.NoError(t, store.Add(ctx, newTask("task-failed", now, model.TaskFailed)))

	removed, err := store.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.NotEqual(t, model.TaskCompleted, task.Status)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, newTask("task-1", time.Now().UTC().Truncate(time.Second), model.TaskPending)))

	// A fresh store over the same directory sees the queue.
	reopened, err := New(dir)
	require.NoError(t, err)
	tasks, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-1", tasks[0].TaskID)
}
