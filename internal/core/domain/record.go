package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceKind tags where a record came from.
type SourceKind string

// Available source kinds.
const (
	// SourceLocal is content retrieved from the local index.
	SourceLocal SourceKind = "LOCAL"

	// SourceWeb is content returned by a web search provider.
	SourceWeb SourceKind = "WEB"
)

// IsValid returns true if the kind is recognised.
func (k SourceKind) IsValid() bool {
	return k == SourceLocal || k == SourceWeb
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Default labels used when a provider does not supply one.
const (
	DefaultWebLabel = "Web Result"
	DefaultWebURI   = "Unknown URL"
)

// PreviewLength is the number of characters kept by Record.Preview.
const PreviewLength = 100

// Provenance records the origin of ingested content.
// Labeled is decided once at ingestion; query-time code never inspects
// label text to decide whether it is usable.
type Provenance struct {
	// Label is the human-readable origin (file name, page title).
	Label string

	// Labeled is true when Label is a real, user-meaningful name.
	Labeled bool
}

// Labeled returns a provenance carrying a usable label.
// An empty or whitespace label yields an unlabeled provenance.
func Labeled(label string) Provenance {
	label = strings.TrimSpace(label)
	if label == "" {
		return Unlabeled()
	}
	return Provenance{Label: label, Labeled: true}
}

// FileProvenance labels content with the base name of a local path.
// Paths with no usable base name yield an unlabeled provenance.
func FileProvenance(path string) Provenance {
	path = strings.TrimSpace(path)
	if path == "" {
		return Unlabeled()
	}
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return Unlabeled()
	}
	return Labeled(base)
}

// Unlabeled returns a provenance with no usable label.
func Unlabeled() Provenance {
	return Provenance{}
}

// Display returns the label to show for the n-th hit.
func (p Provenance) Display(n int) string {
	if p.Labeled {
		return p.Label
	}
	return fmt.Sprintf("Document %d", n)
}

// Record is one piece of retrieved context passed between the fusion
// engine and the synthesizer. Records live for a single request.
type Record struct {
	// Content is the text used for the prompt.
	Content string `json:"content"`

	// Kind is assigned on creation and never changed.
	Kind SourceKind `json:"source_kind"`

	// Label is the display origin: file name for LOCAL, page title for WEB.
	Label string `json:"source_label"`

	// URI is set only for WEB records.
	URI string `json:"source_uri,omitempty"`

	// Score is the index distance for LOCAL records (lower is closer) and the
	// provider relevance for WEB records (higher is better); nil when unknown.
	Score *float64 `json:"relevance_score,omitempty"`

	// Sequence is the 1-based position in the final answer.
	// Zero until the fusion engine numbers the list.
	Sequence int `json:"sequence_number"`
}

// NewLocalRecord builds a LOCAL record with a distance score.
func NewLocalRecord(content, label string, distance float64) Record {
	d := distance
	return Record{
		Content: content,
		Kind:    SourceLocal,
		Label:   label,
		Score:   &d,
	}
}

// NewWebRecord builds a WEB record, applying the default title and URL.
// score is the provider's relevance score, or nil when it supplies none.
func NewWebRecord(content, title, url string, score *float64) Record {
	if strings.TrimSpace(title) == "" {
		title = DefaultWebLabel
	}
	if strings.TrimSpace(url) == "" {
		url = DefaultWebURI
	}
	return Record{
		Content: content,
		Kind:    SourceWeb,
		Label:   title,
		URI:     url,
		Score:   score,
	}
}

// HasLink reports whether the record carries a usable http(s) URI.
func (r Record) HasLink() bool {
	return r.Kind == SourceWeb && strings.HasPrefix(r.URI, "http")
}

// Preview returns the first PreviewLength characters of the content,
// followed by an ellipsis when truncated.
func (r Record) Preview() string {
	runes := []rune(r.Content)
	if len(runes) <= PreviewLength {
		return r.Content
	}
	return string(runes[:PreviewLength]) + "..."
}

// Number assigns sequence numbers 1..N in list order.
func Number(records []Record) []Record {
	for i := range records {
		records[i].Sequence = i + 1
	}
	return records
}

// Query is the question as asked plus its domain-biased form.
type Query struct {
	Original string
	Enhanced string
}
