package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
)

var (
	askLanguage string
	askBudget   int
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question with citations",
	Long: `Answers a question from your indexed documents and live web results.

Local and web records are fused into a numbered context list, the LLM
answers using only that context, and every record is listed as a source.
Use --lang to ask and be answered in another language.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askLanguage, "lang", "l", "en", "language of the question and answer (ISO 639-1)")
	askCmd.Flags().IntVarP(&askBudget, "budget", "n", 0, "maximum number of context records (default retrieval.budget)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer bundle as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd, NeedAnswer); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	resp, err := askService.Ask(commandContext(cmd), driving.AskRequest{
		Question: strings.Join(args, " "),
		Language: askLanguage,
		Budget:   resolveBudget(askBudget),
	})
	if err != nil {
		return describeAskError(err)
	}

	if askJSON {
		return outputAskJSON(cmd, resp)
	}

	cmd.Print(renderBundle(resp.Bundle))
	return nil
}

func outputAskJSON(cmd *cobra.Command, resp *driving.AskResponse) error {
	out := struct {
		*domain.AnswerBundle
		Language string                   `json:"language"`
		Display  []domain.CitationDisplay `json:"citation_display"`
	}{
		AnswerBundle: resp.Bundle,
		Language:     resp.Language,
		Display:      citationDisplays(resp.Bundle.Citations),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// describeAskError turns pipeline failures into messages a user can act on.
func describeAskError(err error) error {
	var te *domain.TimeoutError
	switch {
	case errors.As(err, &te):
		return fmt.Errorf("the model did not answer within %s, try again or raise llm.timeout: %w", te.Limit, err)
	case errors.Is(err, domain.ErrEmptyResult):
		return fmt.Errorf("the model returned an empty answer: %w", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return err
	default:
		return fmt.Errorf("ask failed: %w", err)
	}
}
