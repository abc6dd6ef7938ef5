package cli

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_Flags(t *testing.T) {
	lang := askCmd.Flags().Lookup("lang")
	require.NotNil(t, lang)
	assert.Equal(t, "en", lang.DefValue)

	budget := askCmd.Flags().Lookup("budget")
	require.NotNil(t, budget)
	assert.Equal(t, "0", budget.DefValue)

	assert.NotNil(t, askCmd.Flags().Lookup("json"))
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, err := execute(t, "", "ask")
	assert.Error(t, err)
}

func TestAskCmd_RendersAnswerAndSources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "ask", "--lang", "hi", "--budget", "3", "what", "is", "folic", "acid")

	require.NoError(t, err)
	assert.Contains(t, out, "Take folic acid before conception [2].")
	assert.Contains(t, out, "[1] anemia.pdf")
	assert.Contains(t, out, "https://example.org/folic")
	assert.Contains(t, out, "Iron deficiency")
	assert.Equal(t, "what is folic acid", ts.ask.lastReq.Question)
	assert.Equal(t, "hi", ts.ask.lastReq.Language)
	assert.Equal(t, 3, ts.ask.lastReq.Budget)
}

func TestAskCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "ask", "--json", "folic acid")
	require.NoError(t, err)

	var decoded struct {
		Answer    string                   `json:"answer"`
		Citations []string                 `json:"citations"`
		Sources   []domain.Record          `json:"source_details"`
		Language  string                   `json:"language"`
		Display   []domain.CitationDisplay `json:"citation_display"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded.Citations, len(decoded.Sources))
	assert.Equal(t, "en", decoded.Language)
	require.Len(t, decoded.Display, 2)
	assert.Equal(t, domain.CitationPDF, decoded.Display[0].Kind)
	assert.Equal(t, domain.CitationWebLink, decoded.Display[1].Kind)
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	askService = nil

	_, err := execute(t, "", "ask", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ask service not configured")
}

func TestAskCmd_Timeout(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ask.err = &domain.TimeoutError{Op: "generate", Elapsed: 45 * time.Second, Limit: 45 * time.Second}

	_, err := execute(t, "", "ask", "question")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Contains(t, err.Error(), "did not answer within 45s")
}

func TestDescribeAskError(t *testing.T) {
	assert.Contains(t, describeAskError(domain.ErrEmptyResult).Error(), "empty answer")
	assert.Equal(t, domain.ErrInvalidInput, describeAskError(domain.ErrInvalidInput))

	err := describeAskError(errors.New("boom"))
	assert.EqualError(t, err, "ask failed: boom")
}

func TestRenderCitation(t *testing.T) {
	assert.Contains(t, renderCitation("[1] [Folic acid](https://example.org/folic)"), "https://example.org/folic")
	assert.Contains(t, renderCitation("[2] guide.pdf"), "guide.pdf")
	assert.Equal(t, "[3] Document 3", renderCitation("[3] Document 3"))
}

func TestRenderBundle_NoCitations(t *testing.T) {
	out := renderBundle(&domain.AnswerBundle{Answer: "No information."})

	assert.Contains(t, out, "No information.")
	assert.NotContains(t, out, "Sources")
}

func TestAskCmd_UsesConfiguredBudget(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	configuredBudget = 8

	_, err := execute(t, "", "ask", "folic acid")

	require.NoError(t, err)
	assert.Equal(t, 8, ts.ask.lastReq.Budget)
}
