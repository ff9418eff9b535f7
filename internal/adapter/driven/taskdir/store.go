// Package taskdir implements the TaskStore port as a directory of one JSON
// file per task.
//
// The layout survives process restarts trivially and stays inspectable with
// plain filesystem tools. Writes go through an atomic rename so a crash can
// never leave a half-written task file. A single interactive writer is
// assumed; last writer wins.
package taskdir

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TaskStore = (*Store)(nil)

// Store persists retry tasks as <task_id>.json files under dir.
type Store struct {
	dir string
}

// New creates the task directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create task directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Add persists a new task.
func (s *Store) Add(_ context.Context, task model.RetryTask) error {
	return s.write(task)
}

// Get returns the task with the given id, or (nil, nil) if absent.
func (s *Store) Get(_ context.Context, taskID string) (*model.RetryTask, error) {
	data, err := os.ReadFile(s.path(taskID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task %s: %w", taskID, err)
	}

	var task model.RetryTask
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", taskID, err)
	}
	return &task, nil
}

// List returns all tasks ordered by creation time.
func (s *Store) List(_ context.Context) ([]model.RetryTask, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read task directory: %w", err)
	}

	var tasks []model.RetryTask
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read task file %s: %w", entry.Name(), err)
		}

		var task model.RetryTask
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, fmt.Errorf("decode task file %s: %w", entry.Name(), err)
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].TaskID < tasks[j].TaskID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// Update replaces the stored task with the same TaskID.
func (s *Store) Update(_ context.Context, task model.RetryTask) error {
	if _, err := os.Stat(s.path(task.TaskID)); err != nil {
		return fmt.Errorf("update task %s: %w", task.TaskID, err)
	}
	return s.write(task)
}

// ClearCompleted removes only completed tasks and returns how many were
// removed. Tasks in any other status are never touched.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, task := range tasks {
		if task.Status != model.TaskCompleted {
			continue
		}
		if err := os.Remove(s.path(task.TaskID)); err != nil {
			return removed, fmt.Errorf("remove completed task %s: %w", task.TaskID, err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) path(taskID string) string {
	return filepath.Join(s.dir, taskID+".json")
}

func (s *Store) write(task model.RetryTask) error {
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("encode task %s: %w", task.TaskID, err)
	}

	if err := atomic.WriteFile(s.path(task.TaskID), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write task %s: %w", task.TaskID, err)
	}
	return nil
}
