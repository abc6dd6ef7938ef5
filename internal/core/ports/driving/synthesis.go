package driving

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// SynthesisService turns fused records into a cited answer.
type SynthesisService interface {
	// Synthesize generates an answer from records. Timeouts, empty output and
	// LLM failures are returned to the caller.
	Synthesize(ctx context.Context, records []domain.Record, question string) (*domain.AnswerBundle, error)
}
