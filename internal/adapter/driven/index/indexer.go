// Package index bridges to the external catalog store and search index.
//
// The catalog store owns the dataset schema and the full-text index; this
// subsystem only signals it after a sync changes catalog metadata. The
// signal here is a structured log line plus an optional hook, so the
// external process (or a future IPC channel) can pick it up.
package index

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CatalogIndexer = (*Signaler)(nil)

// Signaler implements the CatalogIndexer port. When a hook is set it is
// invoked with the changed paths; either way the reindex request is logged.
type Signaler struct {
	hook func(ctx context.Context, changedPaths []string) error
}

// New creates a Signaler. hook may be nil.
func New(hook func(ctx context.Context, changedPaths []string) error) *Signaler {
	return &Signaler{hook: hook}
}

// Reindex signals the external catalog store that the given paths changed.
func (s *Signaler) Reindex(ctx context.Context, changedPaths []string) error {
	slog.Info("catalog metadata changed, reindex requested", "paths", len(changedPaths))
	if s.hook == nil {
		return nil
	}
	return s.hook(ctx, changedPaths)
}
