package model

import "time"

// TaskStatus is the lifecycle state of a queued publish attempt.
// Transitions are monotonic: pending -> retrying -> completed or failed;
// a failed task may be retried again (retrying -> completed or failed).
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRetrying  TaskStatus = "retrying"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// RetryTask is a publish attempt that failed after the local save succeeded.
// It captures everything needed to re-run the publish from the branching step,
// including the branch name of the original attempt.
type RetryTask struct {
	TaskID     string     `json:"task_id"`
	DatasetID  string     `json:"dataset_id"`
	Name       string     `json:"name"`
	Payload    []byte     `json:"payload"`
	BranchName string     `json:"branch_name"`
	CreatedAt  time.Time  `json:"created_at"`
	Status     TaskStatus `json:"status"`
	RetryCount int        `json:"retry_count"`
	LastError  string     `json:"last_error"`
}

// Record reconstructs the dataset record captured by this task.
func (t RetryTask) Record() DatasetRecord {
	return DatasetRecord{ID: t.DatasetID, Name: t.Name, Payload: t.Payload}
}
