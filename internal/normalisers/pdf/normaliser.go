// Package pdf extracts text from PDF documents using the pure-Go
// ledongthuc/pdf reader, so ingestion needs no external tools.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxTitleLength is the longest first line accepted as a title.
const maxTitleLength = 200

// TextExtractor turns PDF bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Normaliser handles PDF documents.
type Normaliser struct {
	extractor TextExtractor
}

// New creates a PDF normaliser backed by ledongthuc/pdf.
func New() *Normaliser {
	return &Normaliser{extractor: pageExtractor{}}
}

// NewWithExtractor creates a normaliser with a custom extractor (for testing).
func NewWithExtractor(extractor TextExtractor) *Normaliser {
	return &Normaliser{extractor: extractor}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the text of every page. The file name labels every
// chunk; PDFs rarely carry a usable title in their text.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := n.extractor.Extract(ctx, raw.Content)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return &domain.Document{
		ID:         domain.DocumentID(raw.URI),
		URI:        raw.URI,
		Title:      extractTitle(text, raw.URI),
		Content:    strings.TrimSpace(text),
		Provenance: domain.FileProvenance(raw.URI),
		IngestedAt: time.Now(),
	}, nil
}

// pageExtractor reads pages one at a time, skipping empty ones.
type pageExtractor struct{}

func (pageExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: corrupt pdf: %v", domain.ErrInvalidInput, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

// extractTitle uses the first short non-empty line, falling back to the
// file name.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "\x00"))
		if line != "" && len(line) < maxTitleLength {
			return line
		}
	}

	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
