package driven

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// LLMService generates text from a prompt.
// It is the one required provider: answer synthesis fails without it.
//
// Implementations may include:
//   - Gemini (gemini-2.5-flash)
//   - OpenAI (GPT-4o)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a text completion for the prompt.
	// Implementations must honour ctx cancellation; the caller bounds the call
	// with a deadline.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// TopP is the nucleus sampling probability mass.
	TopP float64

	// TopK limits sampling to the K most likely tokens.
	// Providers without top-k support ignore it.
	TopK int

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// DefaultGenerateOptions returns the standard answer-generation settings.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		MaxTokens:   domain.DefaultMaxTokens,
		Temperature: domain.DefaultTemperature,
		TopP:        domain.DefaultTopP,
		TopK:        domain.DefaultTopK,
	}
}

// WithDefaults fills zero fields from DefaultGenerateOptions. Temperature
// is left alone because zero is a meaningful value.
func (o GenerateOptions) WithDefaults() GenerateOptions {
	d := DefaultGenerateOptions()
	if o.MaxTokens <= 0 {
		o.MaxTokens = d.MaxTokens
	}
	if o.TopP == 0 {
		o.TopP = d.TopP
	}
	if o.TopK == 0 {
		o.TopK = d.TopK
	}
	return o
}
