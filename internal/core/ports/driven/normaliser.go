package driven

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// Normaliser turns raw bytes of one format into plain-text documents.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers return 50-89, fallbacks 1-9.
	Priority() int

	// Normalise extracts text and decides provenance.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}
