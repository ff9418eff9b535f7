package driven

import (
	"context"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// CatalogIndexer is the boundary to the external catalog store and search
// index. A successful sync that touched catalog metadata signals it to
// reindex; the store itself is outside this subsystem.
type CatalogIndexer interface {
	Reindex(ctx context.Context, changedPaths []string) error
}

// RecordValidator checks a record locally before any VCS mutation.
// The full schema lives with the external catalog store; implementations
// here cover id shape, name presence, and payload well-formedness.
// Failures are model.ValidationError values and are never queued.
type RecordValidator interface {
	Validate(record model.DatasetRecord) error
}
