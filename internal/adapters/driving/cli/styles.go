package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/services"
)

// palette is the colour set used for terminal output.
var palette = struct {
	Primary, Secondary, Muted, Warning, Error lipgloss.Color
}{
	Primary:   lipgloss.Color("#7C3AED"), // Purple
	Secondary: lipgloss.Color("#06B6D4"), // Cyan
	Muted:     lipgloss.Color("#6C7086"), // Medium gray
	Warning:   lipgloss.Color("#F9E2AF"), // Yellow
	Error:     lipgloss.Color("#F38BA8"), // Red
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(palette.Primary)
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(palette.Secondary)
	pdfStyle     = lipgloss.NewStyle().Foreground(palette.Warning)
	mutedStyle   = lipgloss.NewStyle().Foreground(palette.Muted)
	answerStyle  = lipgloss.NewStyle().PaddingLeft(2)
	warningStyle = lipgloss.NewStyle().Foreground(palette.Error)
)

// renderCitation styles one citation by its display kind.
func renderCitation(citation string) string {
	d := services.FormatCitation(citation)
	switch d.Kind {
	case domain.CitationWebLink:
		if d.URL != "" {
			return d.Text + " " + linkStyle.Render(d.URL)
		}
		return linkStyle.Render(d.Text)
	case domain.CitationPDF:
		return pdfStyle.Render(d.Text)
	default:
		return d.Text
	}
}

// renderBundle formats an answer with its citations and source previews.
func renderBundle(b *domain.AnswerBundle) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Answer"))
	sb.WriteString("\n\n")
	sb.WriteString(answerStyle.Render(b.Answer))
	sb.WriteString("\n")

	if len(b.Citations) == 0 {
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("Sources"))
	sb.WriteString("\n\n")
	for i, c := range b.Citations {
		sb.WriteString("  ")
		sb.WriteString(renderCitation(c))
		sb.WriteString("\n")
		if i < len(b.Sources) {
			sb.WriteString("      ")
			sb.WriteString(mutedStyle.Render(b.Sources[i].Preview()))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
