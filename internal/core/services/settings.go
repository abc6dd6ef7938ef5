package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider  = "embedding.provider"
	KeyEmbedModel     = "embedding.model"
	KeyEmbedBaseURL   = "embedding.base_url"
	KeyEmbedAPIKey    = "embedding.api_key"
	KeyEmbedCacheAddr = "embedding.cache_addr"

	KeyLLMProvider    = "llm.provider"
	KeyLLMModel       = "llm.model"
	KeyLLMBaseURL     = "llm.base_url"
	KeyLLMAPIKey      = "llm.api_key"
	KeyLLMTemperature = "llm.temperature"
	KeyLLMTopP        = "llm.top_p"
	KeyLLMTopK        = "llm.top_k"
	KeyLLMMaxTokens   = "llm.max_tokens"
	KeyLLMTimeout     = "llm.timeout"

	KeyWebAPIKey      = "web.api_key"
	KeyWebBaseURL     = "web.base_url"
	KeyWebSearchDepth = "web.search_depth"
	KeyWebRPS         = "web.requests_per_second"

	KeyRetrievalBudget         = "retrieval.budget"
	KeyRetrievalLocalK         = "retrieval.local_k"
	KeyRetrievalWebCap         = "retrieval.web_cap"
	KeyRetrievalLocalPriority  = "retrieval.local_priority"
	KeyRetrievalMinRecords     = "retrieval.min_records"
	KeyRetrievalDomainKeywords = "retrieval.domain_keywords"
	KeyRetrievalBiasPhrase     = "retrieval.bias_phrase"

	KeyIndexBackend    = "index.backend"
	KeyIndexPath       = "index.path"
	KeyIndexDSN        = "index.dsn"
	KeyIndexAddress    = "index.address"
	KeyIndexCollection = "index.collection"

	KeyIngestChunkSize    = "ingest.chunk_size"
	KeyIngestChunkOverlap = "ingest.chunk_overlap"
	KeyIngestWorkers      = "ingest.workers"

	KeyMetricsAddr = "metrics.addr"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindDuration
	kindList
	kindProvider
	kindBackend
	kindDepth
)

// settingKinds lists every key Set accepts and how its value is parsed.
var settingKinds = map[string]valueKind{
	KeyEmbedProvider:  kindProvider,
	KeyEmbedModel:     kindString,
	KeyEmbedBaseURL:   kindString,
	KeyEmbedAPIKey:    kindString,
	KeyEmbedCacheAddr: kindString,

	KeyLLMProvider:    kindProvider,
	KeyLLMModel:       kindString,
	KeyLLMBaseURL:     kindString,
	KeyLLMAPIKey:      kindString,
	KeyLLMTemperature: kindFloat,
	KeyLLMTopP:        kindFloat,
	KeyLLMTopK:        kindInt,
	KeyLLMMaxTokens:   kindInt,
	KeyLLMTimeout:     kindDuration,

	KeyWebAPIKey:      kindString,
	KeyWebBaseURL:     kindString,
	KeyWebSearchDepth: kindDepth,
	KeyWebRPS:         kindFloat,

	KeyRetrievalBudget:         kindInt,
	KeyRetrievalLocalK:         kindInt,
	KeyRetrievalWebCap:         kindInt,
	KeyRetrievalLocalPriority:  kindInt,
	KeyRetrievalMinRecords:     kindInt,
	KeyRetrievalDomainKeywords: kindList,
	KeyRetrievalBiasPhrase:     kindString,

	KeyIndexBackend:    kindBackend,
	KeyIndexPath:       kindString,
	KeyIndexDSN:        kindString,
	KeyIndexAddress:    kindString,
	KeyIndexCollection: kindString,

	KeyIngestChunkSize:    kindInt,
	KeyIngestChunkOverlap: kindInt,
	KeyIngestWorkers:      kindInt,

	KeyMetricsAddr: kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get builds the configuration from stored values, falling back to
// domain.DefaultConfig for anything unset or invalid.
func (s *SettingsService) Get() (*domain.Config, error) {
	d := domain.DefaultConfig()

	cfg := &domain.Config{
		Embedding: domain.EmbeddingSettings{
			Provider:  s.getProvider(KeyEmbedProvider, d.Embedding.Provider),
			BaseURL:   s.getString(KeyEmbedBaseURL, d.Embedding.BaseURL),
			APIKey:    s.configStore.GetString(KeyEmbedAPIKey),
			CacheAddr: s.configStore.GetString(KeyEmbedCacheAddr),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(KeyLLMProvider, d.LLM.Provider),
			BaseURL:     s.configStore.GetString(KeyLLMBaseURL),
			APIKey:      s.configStore.GetString(KeyLLMAPIKey),
			Temperature: s.getOptionalFloat(KeyLLMTemperature, d.LLM.Temperature),
			TopP:        s.getFloat(KeyLLMTopP, d.LLM.TopP),
			TopK:        s.getInt(KeyLLMTopK, d.LLM.TopK),
			MaxTokens:   s.getInt(KeyLLMMaxTokens, d.LLM.MaxTokens),
			Timeout:     s.getDuration(KeyLLMTimeout, d.LLM.Timeout),
		},
		WebSearch: domain.WebSearchSettings{
			APIKey:            s.configStore.GetString(KeyWebAPIKey),
			BaseURL:           s.configStore.GetString(KeyWebBaseURL),
			SearchDepth:       s.getString(KeyWebSearchDepth, d.WebSearch.SearchDepth),
			RequestsPerSecond: s.getFloat(KeyWebRPS, d.WebSearch.RequestsPerSecond),
		},
		Retrieval: domain.RetrievalSettings{
			Budget:         s.getInt(KeyRetrievalBudget, d.Retrieval.Budget),
			LocalK:         s.getInt(KeyRetrievalLocalK, d.Retrieval.LocalK),
			WebCap:         s.getInt(KeyRetrievalWebCap, d.Retrieval.WebCap),
			LocalPriority:  s.getInt(KeyRetrievalLocalPriority, d.Retrieval.LocalPriority),
			MinRecords:     s.getInt(KeyRetrievalMinRecords, d.Retrieval.MinRecords),
			DomainKeywords: s.getList(KeyRetrievalDomainKeywords, d.Retrieval.DomainKeywords),
			BiasPhrase:     s.getString(KeyRetrievalBiasPhrase, d.Retrieval.BiasPhrase),
		},
		Index: domain.IndexSettings{
			Backend:    s.getBackend(d.Index.Backend),
			Path:       s.configStore.GetString(KeyIndexPath),
			DSN:        s.configStore.GetString(KeyIndexDSN),
			Address:    s.configStore.GetString(KeyIndexAddress),
			Collection: s.getString(KeyIndexCollection, d.Index.Collection),
		},
		Ingest: domain.IngestSettings{
			ChunkSize:    s.getInt(KeyIngestChunkSize, d.Ingest.ChunkSize),
			ChunkOverlap: s.getInt(KeyIngestChunkOverlap, d.Ingest.ChunkOverlap),
			Workers:      s.getInt(KeyIngestWorkers, d.Ingest.Workers),
		},
		MetricsAddr: s.configStore.GetString(KeyMetricsAddr),
	}

	// Models default per provider, so a provider switch without a model
	// does not keep the previous provider's model name.
	cfg.Embedding.Model = s.getString(KeyEmbedModel, domain.DefaultEmbeddingModels()[cfg.Embedding.Provider])
	cfg.LLM.Model = s.getString(KeyLLMModel, domain.DefaultLLMModels()[cfg.LLM.Provider])
	if cfg.LLM.Provider.IsLocal() && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = domain.DefaultOllamaBaseURL
	}
	if !cfg.Embedding.Provider.IsLocal() && s.configStore.GetString(KeyEmbedBaseURL) == "" {
		cfg.Embedding.BaseURL = ""
	}

	return cfg, nil
}

// Keys returns every key Set accepts, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func parseSetting(kind valueKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", value)
		}
		if n < 0 {
			return nil, fmt.Errorf("must not be negative")
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", value)
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("expected a duration like 45s, got %q", value)
		}
		if d <= 0 {
			return nil, fmt.Errorf("duration must be positive")
		}
		return d.String(), nil
	case kindList:
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, strings.ToLower(part))
			}
		}
		return items, nil
	case kindProvider:
		if p := domain.AIProvider(value); !p.IsValid() {
			return nil, fmt.Errorf("unknown provider %q", value)
		}
		return value, nil
	case kindBackend:
		if b := domain.IndexBackend(value); !b.IsValid() {
			return nil, fmt.Errorf("unknown index backend %q", value)
		}
		return value, nil
	case kindDepth:
		if value != "basic" && value != "advanced" {
			return nil, fmt.Errorf("search depth must be basic or advanced")
		}
		return value, nil
	default:
		return value, nil
	}
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	baseURL := ""
	if provider.IsLocal() {
		baseURL = s.getString(KeyEmbedBaseURL, domain.DefaultOllamaBaseURL)
	}

	return s.save(map[string]any{
		KeyEmbedProvider: provider.String(),
		KeyEmbedModel:    model,
		KeyEmbedBaseURL:  baseURL,
		KeyEmbedAPIKey:   apiKey,
	})
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	baseURL := ""
	if provider.IsLocal() {
		baseURL = s.getString(KeyLLMBaseURL, domain.DefaultOllamaBaseURL)
	}

	return s.save(map[string]any{
		KeyLLMProvider: provider.String(),
		KeyLLMModel:    model,
		KeyLLMBaseURL:  baseURL,
		KeyLLMAPIKey:   apiKey,
	})
}

// SetWebSearchKey stores the web search API key. Keys that would leave
// web search disabled are rejected.
func (s *SettingsService) SetWebSearchKey(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if !(domain.WebSearchSettings{APIKey: apiKey}).IsConfigured() {
		return fmt.Errorf("%w: web search key must be at least %d characters",
			domain.ErrInvalidInput, domain.MinWebSearchKeyLength)
	}
	return s.save(map[string]any{KeyWebAPIKey: apiKey})
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	cfg, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&cfg.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	cfg, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&cfg.LLM)
}

// save writes values in key order so failures are reproducible.
func (s *SettingsService) save(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := s.configStore.Set(k, values[k]); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// getOptionalFloat keeps a stored zero, which getFloat cannot tell apart
// from a missing value once it reaches the caller.
func (s *SettingsService) getOptionalFloat(key string, defaultVal *float64) *float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return domain.Float64(s.configStore.GetFloat(key))
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s.configStore.GetString(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	backend := domain.IndexBackend(s.configStore.GetString(KeyIndexBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
