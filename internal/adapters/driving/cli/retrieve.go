package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/services"
)

var (
	retrieveBudget int
	retrieveJSON   bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [question]",
	Short: "Show the fused context for a question",
	Long: `Runs retrieval only and prints the numbered records the answer would be
built from: up to three local records first, then web results, then any
remaining local records.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveBudget, "budget", "n", 0, "maximum number of records (default retrieval.budget)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd, NeedRetrieval); err != nil {
		return err
	}
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	records := retrievalService.Retrieve(commandContext(cmd), strings.Join(args, " "), resolveBudget(retrieveBudget))

	if retrieveJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputRecords(cmd, records)
}

func outputRecords(cmd *cobra.Command, records []domain.Record) error {
	if len(records) == 0 {
		cmd.Println("No context found.")
		return nil
	}

	cmd.Println("Records:")
	cmd.Println()
	for i := range records {
		r := records[i]
		cmd.Printf("  %s (%s)", services.Citation(r), r.Kind)
		if r.Score != nil {
			cmd.Printf(" %s %.3f", scoreLabel(r.Kind), *r.Score)
		}
		cmd.Println()
		cmd.Printf("      %s\n", mutedStyle.Render(r.Preview()))
		cmd.Println()
	}
	return nil
}

func citationDisplays(citations []string) []domain.CitationDisplay {
	out := make([]domain.CitationDisplay, len(citations))
	for i, c := range citations {
		out[i] = services.FormatCitation(c)
	}
	return out
}

// scoreLabel names what Score means for a record kind.
func scoreLabel(kind domain.SourceKind) string {
	if kind == domain.SourceWeb {
		return "relevance"
	}
	return "distance"
}
