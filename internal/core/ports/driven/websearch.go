package driven

import "context"

// WebSearchProvider returns ranked web snippets for a query.
// This is an optional service - when nil, answers use local context only.
// Implementations must return an error, never panic, when their
// credential is missing or invalid.
type WebSearchProvider interface {
	// Search returns at most max results in the provider's native order.
	Search(ctx context.Context, query string, max int) ([]WebResult, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// WebResult is one web search hit.
type WebResult struct {
	// Title is the page title; may be empty.
	Title string

	// URL is the page address; may be empty.
	URL string

	// Content is the snippet text.
	Content string

	// Score is the provider's relevance score, when supplied.
	Score *float64
}
