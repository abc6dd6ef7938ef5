// Package noop provides a secondary context lookup that never finds anything.
// It keeps the fusion fallback path wired until a real secondary source exists.
package noop

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure Lookup implements the interface.
var _ driven.ContextLookup = (*Lookup)(nil)

// Lookup returns no records.
type Lookup struct{}

// New creates a no-op lookup.
func New() *Lookup {
	return &Lookup{}
}

// Lookup returns an empty record list.
func (*Lookup) Lookup(ctx context.Context, _ string) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []domain.Record{}, nil
}

// Name identifies the lookup.
func (*Lookup) Name() string {
	return "noop"
}
