// Package cleaner provides a processor that trims chunks and drops blank ones.
package cleaner

import (
	"context"
	"strings"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// Processor trims chunk whitespace, removes empty chunks and renumbers
// positions so they stay contiguous.
type Processor struct{}

// New creates a cleaner.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process cleans the chunks produced by earlier processors.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := chunks[:0]
	for _, c := range chunks {
		c.Content = strings.TrimSpace(c.Content)
		if c.Content == "" {
			continue
		}
		c.Position = len(out)
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
