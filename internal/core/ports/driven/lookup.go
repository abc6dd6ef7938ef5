package driven

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// ContextLookup is a secondary source consulted when the primary lookups
// produced too few records. Returned records must already carry a Kind.
type ContextLookup interface {
	// Lookup returns additional records for the query.
	Lookup(ctx context.Context, query string) ([]domain.Record, error)

	// Name identifies the lookup in logs and metrics.
	Name() string
}
