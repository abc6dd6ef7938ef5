package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
)

type mockRetriever struct {
	records    []domain.Record
	lastQ      string
	lastBudget int
}

func (m *mockRetriever) Retrieve(_ context.Context, q string, budget int) []domain.Record {
	m.lastQ = q
	m.lastBudget = budget
	return m.records
}

type mockTranslator struct {
	supported map[string]bool
	toCalls   int
	fromCalls int
}

func (m *mockTranslator) ToEnglish(_ context.Context, text, lang string) string {
	m.toCalls++
	return "EN(" + lang + "):" + text
}

func (m *mockTranslator) FromEnglish(_ context.Context, text, lang string) string {
	m.fromCalls++
	return lang + ":" + text
}

func (m *mockTranslator) Supports(lang string) bool { return m.supported[lang] }

func TestAskService_English(t *testing.T) {
	retriever := &mockRetriever{records: testRecords()}
	llm := &mockLLMService{response: "answer"}
	tr := &mockTranslator{}
	s := NewAskService(retriever, NewSynthesizer(llm, domain.LLMSettings{}), tr, 5)

	resp, err := s.Ask(context.Background(), driving.AskRequest{Question: "  What is PCOS?  "})

	require.NoError(t, err)
	assert.Equal(t, "en", resp.Language)
	assert.Equal(t, "What is PCOS?", resp.EnglishQuestion)
	assert.Equal(t, "answer", resp.Bundle.Answer)
	assert.Equal(t, 5, retriever.lastBudget)
	assert.Zero(t, tr.toCalls)
	assert.Zero(t, tr.fromCalls)
}

func TestAskService_Translated(t *testing.T) {
	retriever := &mockRetriever{records: testRecords()}
	llm := &mockLLMService{response: "answer"}
	tr := &mockTranslator{supported: map[string]bool{"hi": true}}
	s := NewAskService(retriever, NewSynthesizer(llm, domain.LLMSettings{}), tr, 5)

	resp, err := s.Ask(context.Background(), driving.AskRequest{Question: "प्रश्न", Language: "HI", Budget: 3})

	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Language)
	assert.Equal(t, "EN(hi):प्रश्न", retriever.lastQ)
	assert.Equal(t, 3, retriever.lastBudget)
	assert.Equal(t, "hi:answer", resp.Bundle.Answer)
	// Citations stay untranslated.
	assert.Equal(t, "[1] C. Women and health.pdf", resp.Bundle.Citations[0])
}

func TestAskService_UnsupportedLanguage(t *testing.T) {
	tr := &mockTranslator{supported: map[string]bool{}}
	s := NewAskService(&mockRetriever{}, NewSynthesizer(&mockLLMService{response: "a"}, domain.LLMSettings{}), tr, 5)

	resp, err := s.Ask(context.Background(), driving.AskRequest{Question: "q", Language: "xx"})

	require.NoError(t, err)
	assert.Equal(t, "en", resp.Language)
	assert.Zero(t, tr.toCalls)
}

func TestAskService_NoTranslator(t *testing.T) {
	s := NewAskService(&mockRetriever{}, NewSynthesizer(&mockLLMService{response: "a"}, domain.LLMSettings{}), nil, 0)

	resp, err := s.Ask(context.Background(), driving.AskRequest{Question: "q", Language: "es"})

	require.NoError(t, err)
	assert.Equal(t, "en", resp.Language)
}

func TestAskService_EmptyQuestion(t *testing.T) {
	s := NewAskService(&mockRetriever{}, NewSynthesizer(&mockLLMService{}, domain.LLMSettings{}), nil, 5)

	_, err := s.Ask(context.Background(), driving.AskRequest{Question: "  "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskService_SynthesisErrorSurfaced(t *testing.T) {
	tr := &mockTranslator{supported: map[string]bool{"fr": true}}
	llm := &mockLLMService{err: errors.New("quota exceeded")}
	s := NewAskService(&mockRetriever{}, NewSynthesizer(llm, domain.LLMSettings{}), tr, 5)

	resp, err := s.Ask(context.Background(), driving.AskRequest{Question: "q", Language: "fr"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Zero(t, tr.fromCalls)
}

func TestAskService_EndToEndWithFusion(t *testing.T) {
	f := newTestFusion(&mockEmbeddingService{}, &mockLocalIndex{hits: localHits(4)}, &mockWebSearch{results: webResults(3)})
	llm := &mockLLMService{response: "fused answer"}
	s := NewAskService(f, NewSynthesizer(llm, domain.LLMSettings{}), nil, 5)

	resp, err := s.Ask(context.Background(), driving.AskRequest{Question: "pregnancy diet"})

	require.NoError(t, err)
	require.Len(t, resp.Bundle.Sources, 5)
	assert.Equal(t, "[4] [Web A](https://example.com/a)", resp.Bundle.Citations[3])
	assert.Contains(t, llm.lastPrompt, "[Source 5] (Web B): web content B")
}
