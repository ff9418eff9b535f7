package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ConfigStore = (*ConfigRepo)(nil)

// ConfigRepo is the SQLite implementation of the ConfigStore port. There is
// exactly one configuration row; saves replace it (last writer wins, which
// is acceptable for a single interactive user).
type ConfigRepo struct {
	db *DB
}

// NewConfigRepo creates a new ConfigRepo backed by the given DB.
func NewConfigRepo(db *DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// Load returns the stored configuration, or ErrNoConfig when none has been
// saved yet.
func (r *ConfigRepo) Load(ctx context.Context) (*model.RepoConfig, error) {
	const query = `
		SELECT host, owner, repo, default_branch, username, catalog_local_path, reviewers, labels
		FROM repo_config
		WHERE id = 1
	`

	var cfg model.RepoConfig
	var reviewers, labels string

	err := r.db.Reader.QueryRowContext(ctx, query).Scan(
		&cfg.Host, &cfg.Owner, &cfg.Repo, &cfg.DefaultBranch,
		&cfg.Username, &cfg.CatalogLocalPath, &reviewers, &labels,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("load repo config: %w", err)
	}

	cfg.Reviewers = splitList(reviewers)
	cfg.Labels = splitList(labels)
	return &cfg, nil
}

// Save stores or replaces the configuration.
func (r *ConfigRepo) Save(ctx context.Context, cfg model.RepoConfig) error {
	const query = `
		INSERT INTO repo_config (id, host, owner, repo, default_branch, username, catalog_local_path, reviewers, labels)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			host = excluded.host,
			owner = excluded.owner,
			repo = excluded.repo,
			default_branch = excluded.default_branch,
			username = excluded.username,
			catalog_local_path = excluded.catalog_local_path,
			reviewers = excluded.reviewers,
			labels = excluded.labels
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		cfg.Host, cfg.Owner, cfg.Repo, cfg.DefaultBranch,
		cfg.Username, cfg.CatalogLocalPath,
		strings.Join(cfg.Reviewers, ","), strings.Join(cfg.Labels, ","),
	)
	if err != nil {
		return fmt.Errorf("save repo config: %w", err)
	}
	return nil
}

// splitList parses a comma-joined column back into a slice, dropping empties.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
