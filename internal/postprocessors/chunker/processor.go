// Package chunker provides a recursive character text chunking processor.
package chunker

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content on paragraph, line and word boundaries
// into chunks of at most chunkSize characters.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
	splitter  textsplitter.TextSplitter
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	p.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(p.chunkSize),
		textsplitter.WithChunkOverlap(p.overlap),
	)

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks carrying the document's
// provenance. Input chunks are ignored.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts, err := p.splitter.SplitText(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("splitting text: %w", err)
	}

	chunks := make([]domain.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Content:    part,
			Position:   i,
			Provenance: doc.Provenance,
		})
	}

	return chunks, nil
}
