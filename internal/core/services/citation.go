package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// Citation renders the citation line for a numbered record.
func Citation(r domain.Record) string {
	if r.HasLink() {
		return fmt.Sprintf("[%d] [%s](%s)", r.Sequence, r.Label, r.URI)
	}
	return fmt.Sprintf("[%d] %s", r.Sequence, r.Label)
}

// Citations renders one citation per record, in order.
func Citations(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = Citation(r)
	}
	return out
}

var markdownLink = regexp.MustCompile(`^(\[\d+\]\s*)?\[([^\]]*)\]\(([^)]*)\)\s*$`)

// FormatCitation classifies a citation for display. A markdown link or any
// "http" mention is a weblink, a ".pdf" mention is a pdf, anything else is other.
func FormatCitation(citation string) domain.CitationDisplay {
	if m := markdownLink.FindStringSubmatch(citation); m != nil {
		return domain.CitationDisplay{
			Kind: domain.CitationWebLink,
			Text: strings.TrimSpace(m[1] + m[2]),
			URL:  m[3],
		}
	}

	switch {
	case strings.Contains(citation, "](") || strings.Contains(citation, "http"):
		return domain.CitationDisplay{Kind: domain.CitationWebLink, Text: citation}
	case strings.Contains(strings.ToLower(citation), ".pdf"):
		return domain.CitationDisplay{Kind: domain.CitationPDF, Text: citation}
	default:
		return domain.CitationDisplay{Kind: domain.CitationOther, Text: citation}
	}
}
