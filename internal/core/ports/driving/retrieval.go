package driving

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// RetrievalService fuses local and web context for a question.
type RetrievalService interface {
	// Retrieve returns at most budget records numbered 1..N.
	// Provider failures degrade to fewer records; it never fails.
	Retrieve(ctx context.Context, question string, budget int) []domain.Record
}
