package driving

import "github.com/custodia-labs/fusionqa/internal/core/domain"

// SettingsService manages persisted application settings.
type SettingsService interface {
	// Get builds the configuration from stored values and defaults.
	Get() (*domain.Config, error)

	// Set validates and stores a single dotted key.
	Set(key, value string) error

	// Keys returns every key Set accepts.
	Keys() []string

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetWebSearchKey stores the web search API key.
	SetWebSearchKey(apiKey string) error

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error
}
