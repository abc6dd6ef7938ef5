package driving

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// AskRequest is a question in any supported language.
type AskRequest struct {
	// Question is the user's question.
	Question string

	// Language is the ISO 639-1 code of the question; empty means English.
	Language string

	// Budget caps the number of context records; zero uses the configured default.
	Budget int
}

// AskResponse is an answer in the requested language.
type AskResponse struct {
	// Bundle holds the answer, citations and sources.
	Bundle *domain.AnswerBundle

	// Language is the language of Bundle.Answer.
	Language string

	// EnglishQuestion is the question after translation.
	EnglishQuestion string
}

// AskService runs the full question-answering pipeline.
type AskService interface {
	// Ask translates, retrieves, synthesizes and translates back.
	Ask(ctx context.Context, req AskRequest) (*AskResponse, error)
}
