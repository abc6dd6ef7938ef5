// Package ollama provides an LLM service adapter using a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/ollamaclient"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama server URL. Empty means OLLAMA_HOST.
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using Ollama.
type LLMService struct {
	client *api.Client
	model  string
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	client, err := ollamaclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &LLMService{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Generate produces a completion without streaming.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   s.model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: generateOptions(opts),
	}

	var b strings.Builder
	err := s.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: %w", ollamaclient.Classify(ctx, err))
	}
	return b.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the server heartbeat without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", ollamaclient.Classify(ctx, err))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

func generateOptions(opts driven.GenerateOptions) map[string]any {
	m := map[string]any{"temperature": opts.Temperature}
	if opts.MaxTokens > 0 {
		m["num_predict"] = opts.MaxTokens
	}
	if opts.TopP > 0 {
		m["top_p"] = opts.TopP
	}
	if opts.TopK > 0 {
		m["top_k"] = opts.TopK
	}
	if len(opts.StopWords) > 0 {
		m["stop"] = opts.StopWords
	}
	return m
}
