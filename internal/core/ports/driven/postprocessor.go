package driven

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// PostProcessor processes document content to produce chunks.
// PostProcessors are chained in a pipeline.
type PostProcessor interface {
	// Name returns the processor name for logging.
	Name() string

	// Process takes a document and returns chunks.
	// A splitter receives nil and creates chunks; later processors
	// receive and may modify them.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
