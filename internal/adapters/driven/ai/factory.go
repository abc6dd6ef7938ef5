// Package ai provides factory functions for creating AI service adapters
// and the retrieval providers that depend on them.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/embedding/cache"
	geminiembed "github.com/custodia-labs/fusionqa/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/fusionqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/fusionqa/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/fusionqa/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/fusionqa/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/fusionqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/fusionqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// settingsHint is appended to provider errors shown to the user.
const settingsHint = "Run 'fusionqa settings' to fix"

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns nil, nil when no provider is configured.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w. %s", err, settingsHint)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("embedding: %w: service unreachable (%w). %s",
			domain.ErrProviderUnavailable, err, settingsHint)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns nil, nil when no provider is configured.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("llm: %w. %s", err, settingsHint)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("llm: %w: service unreachable (%w). %s",
			domain.ErrProviderUnavailable, err, settingsHint)
	}
	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(context.Background(), svc.Ping)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(context.Background(), svc.Ping)
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured. With a cache address the
// service is wrapped in a redis query-embedding cache.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc, err = createOllamaEmbedding(settings)
	case domain.AIProviderOpenAI:
		svc, err = createOpenAIEmbedding(settings)
	case domain.AIProviderGemini:
		svc, err = createGeminiEmbedding(settings)
	default:
		return nil, fmt.Errorf("%w: %s does not support embeddings", domain.ErrInvalidInput, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	if settings.CacheAddr != "" {
		svc = cache.NewFromAddr(svc, settings.CacheAddr, cache.Config{})
	}
	return svc, nil
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewLLMService(geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", domain.ErrInvalidInput, settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createGeminiEmbedding creates a Gemini embedding service.
func createGeminiEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return geminiembed.NewEmbeddingService(geminiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
