package driven

import (
	"context"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// ConfigStore defines the driven port for persisting the repository
// configuration. Plain storage; the credential never lives here.
// Single-writer read-modify-write with last-writer-wins semantics.
type ConfigStore interface {
	// Load returns the stored configuration, or ErrNoConfig when none
	// has been saved yet.
	Load(ctx context.Context) (*model.RepoConfig, error)

	// Save stores or replaces the configuration.
	Save(ctx context.Context, cfg model.RepoConfig) error
}

// PublishLogStore defines the driven port for the durable record of
// completed publishes.
type PublishLogStore interface {
	// Append records a completed publish.
	Append(ctx context.Context, entry model.PublishLogEntry) error

	// List returns publish records, newest first.
	List(ctx context.Context) ([]model.PublishLogEntry, error)
}
