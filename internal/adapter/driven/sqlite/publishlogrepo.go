package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PublishLogStore = (*PublishLogRepo)(nil)

// PublishLogRepo is the SQLite implementation of the PublishLogStore port.
type PublishLogRepo struct {
	db *DB
}

// NewPublishLogRepo creates a new PublishLogRepo backed by the given DB.
func NewPublishLogRepo(db *DB) *PublishLogRepo {
	return &PublishLogRepo{db: db}
}

// Append records a completed publish.
func (r *PublishLogRepo) Append(ctx context.Context, entry model.PublishLogEntry) error {
	const query = `
		INSERT INTO publish_log (dataset_id, branch, pr_number, pr_url, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		entry.DatasetID, entry.Branch, entry.PRNumber, entry.PRURL,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append publish log entry for %s: %w", entry.DatasetID, err)
	}
	return nil
}

// List returns publish records, newest first.
func (r *PublishLogRepo) List(ctx context.Context) ([]model.PublishLogEntry, error) {
	const query = `
		SELECT id, dataset_id, branch, pr_number, pr_url, created_at
		FROM publish_log
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list publish log: %w", err)
	}
	defer rows.Close()

	var entries []model.PublishLogEntry
	for rows.Next() {
		var e model.PublishLogEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.DatasetID, &e.Branch, &e.PRNumber, &e.PRURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan publish log entry: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate publish log: %w", err)
	}

	return entries, nil
}
