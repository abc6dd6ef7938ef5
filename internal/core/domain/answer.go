package domain

// AnswerBundle is the result of synthesis.
// Citations[i] always describes Sources[i].
type AnswerBundle struct {
	// Answer is the model's answer text.
	Answer string `json:"answer"`

	// Citations holds one formatted citation per source, in order.
	Citations []string `json:"citations"`

	// Sources is the record list the answer was built from, unmodified.
	Sources []Record `json:"source_details"`
}

// Aligned reports whether the citation and source lists line up.
func (b *AnswerBundle) Aligned() bool {
	return len(b.Citations) == len(b.Sources)
}

// CitationKind classifies a citation for display.
type CitationKind string

// Available citation kinds.
const (
	CitationWebLink CitationKind = "weblink"
	CitationPDF     CitationKind = "pdf"
	CitationOther   CitationKind = "other"
)

// CitationDisplay is presentation metadata derived from a citation string.
type CitationDisplay struct {
	// Kind is the display classification.
	Kind CitationKind `json:"kind"`

	// Text is the citation text to render.
	Text string `json:"display_text"`

	// URL is the link target for markdown-link citations.
	URL string `json:"url,omitempty"`
}
