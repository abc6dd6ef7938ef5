package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts a markdown document to a normalised document.
// The Content field contains the text with markdown formatting simplified.
// Every chunk of the file is labeled with its base name.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawContent := string(raw.Content)

	return &domain.Document{
		ID:         domain.DocumentID(raw.URI),
		URI:        raw.URI,
		Title:      extractMarkdownTitle(rawContent, raw.URI),
		Content:    stripMarkdown(rawContent),
		Provenance: domain.FileProvenance(raw.URI),
		IngestedAt: time.Now(),
	}, nil
}

// extractMarkdownTitle extracts a title from the markdown content or falls back to filename.
func extractMarkdownTitle(content, uri string) string {
	// Try to find first H1 heading (# Title)
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	// Fall back to filename
	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// Pre-compiled markdown patterns, applied in order.
var (
	codeBlock     = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode    = regexp.MustCompile("`[^`]+`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote    = regexp.MustCompile(`(?m)^>\s*`)
	hr            = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common markdown formatting for plain text content.
// Horizontal rules and list markers are removed before emphasis so that
// "---" and "* item" lines are recognised.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "_", " ")

	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
