package html

import (
	"context"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts an HTML document to a normalised document.
// The Content field contains the text with HTML tags stripped.
// Fetched pages are labeled with their <title>; local files with their
// base name. Chunking is handled by the PostProcessor pipeline.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(raw.Content)
	pageTitle := findTitle(rawContent)

	title := pageTitle
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	provenance := domain.FileProvenance(raw.URI)
	if isWebURI(raw.URI) {
		provenance = domain.Labeled(pageTitle)
	}

	return &domain.Document{
		ID:         domain.DocumentID(raw.URI),
		URI:        raw.URI,
		Title:      title,
		Content:    stripHTML(rawContent),
		Provenance: provenance,
		IngestedAt: time.Now(),
	}, nil
}

func isWebURI(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
)

// findTitle returns the decoded <title> text, or "".
func findTitle(content string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(strings.TrimSpace(matches[1])))
	}
	return ""
}

// titleFromURI derives a readable title from a file name or URL path.
func titleFromURI(uri string) string {
	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// stripHTML removes HTML tags and extracts readable text content.
func stripHTML(content string) string {
	// Remove script, style, noscript, head, and svg tags entirely
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")

	// Remove HTML comments
	content = htmlComments.ReplaceAllString(content, "")

	// Add newlines before block elements for readability
	content = openBlockElements.ReplaceAllString(content, "\n")

	// Add newlines after closing block elements
	content = blockElements.ReplaceAllString(content, "\n")

	// Convert <br> and <hr> to newlines
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	// Strip all remaining HTML tags
	content = allTags.ReplaceAllString(content, "")

	// Decode HTML entities
	content = html.UnescapeString(content)

	// Collapse multiple spaces (but preserve newlines)
	content = multiSpaces.ReplaceAllString(content, " ")

	// Collapse multiple newlines
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	// Trim each line and remove empty lines
	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
