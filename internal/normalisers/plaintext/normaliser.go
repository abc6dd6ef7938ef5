package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/tab-separated-values",
		"text/rtf",
		"application/json",
		"application/xml",
		"text/xml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise converts a raw document to a normalised document.
// Invalid UTF-8 sequences are replaced so downstream splitters and
// providers always receive valid text.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:         domain.DocumentID(raw.URI),
		URI:        raw.URI,
		Title:      extractTitle(raw.URI),
		Content:    strings.ToValidUTF8(string(raw.Content), "�"),
		Provenance: domain.FileProvenance(raw.URI),
		IngestedAt: time.Now(),
	}, nil
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)

	// Remove common extensions for cleaner title
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	// Replace underscores and dashes with spaces
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
