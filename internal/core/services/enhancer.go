package services

import (
	"strings"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// currentInfoIndicators mark questions that likely need fresh web content.
var currentInfoIndicators = []string{
	"latest", "recent", "new", "current", "today", "this year",
	"2024", "2025", "2026", "update", "breaking",
}

// QueryEnhancer biases questions toward the configured domain.
type QueryEnhancer struct {
	keywords []string
	bias     string
}

// NewQueryEnhancer creates an enhancer from retrieval settings.
// Empty keyword lists and bias phrases fall back to the defaults.
func NewQueryEnhancer(cfg domain.RetrievalSettings) *QueryEnhancer {
	keywords := cfg.DomainKeywords
	if len(keywords) == 0 {
		keywords = domain.DefaultDomainKeywords()
	}
	bias := cfg.BiasPhrase
	if bias == "" {
		bias = domain.DefaultBiasPhrase
	}

	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &QueryEnhancer{keywords: lowered, bias: bias}
}

// Enhance returns the question unchanged when it already mentions a domain
// keyword, otherwise the bias phrase followed by the question.
func (e *QueryEnhancer) Enhance(question string) string {
	if e.OnTopic(question) {
		return question
	}
	return e.bias + question
}

// Query returns both forms of the question.
func (e *QueryEnhancer) Query(question string) domain.Query {
	return domain.Query{Original: question, Enhanced: e.Enhance(question)}
}

// OnTopic reports whether the question contains any domain keyword.
func (e *QueryEnhancer) OnTopic(question string) bool {
	q := strings.ToLower(question)
	for _, k := range e.keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// NeedsCurrentInfo reports whether the question asks for recent information.
func (e *QueryEnhancer) NeedsCurrentInfo(question string) bool {
	q := strings.ToLower(question)
	for _, ind := range currentInfoIndicators {
		if strings.Contains(q, ind) {
			return true
		}
	}
	return false
}
