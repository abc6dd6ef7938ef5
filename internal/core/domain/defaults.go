package domain

import "time"

// Retrieval defaults.
const (
	DefaultBudget        = 5
	DefaultLocalK        = 5
	DefaultWebCap        = 3
	DefaultLocalPriority = 3
	DefaultMinRecords    = 2
	DefaultBiasPhrase    = "women's health "
)

// Generation defaults.
const (
	DefaultTemperature = 0.3
	DefaultTopP        = 0.8
	DefaultTopK        = 40
	DefaultMaxTokens   = 2048
	DefaultLLMTimeout  = 45 * time.Second
)

// Ingestion defaults.
const (
	DefaultChunkSize     = 1000
	DefaultChunkOverlap  = 200
	DefaultIngestWorkers = 4
)

// Index defaults.
const (
	DefaultIndexCollection = "fusionqa_chunks"
	DefaultOllamaBaseURL   = "http://localhost:11434"
)

// DefaultDomainKeywords returns the keywords that mark a question as
// already on-topic.
func DefaultDomainKeywords() []string {
	return []string{
		"women", "woman", "female", "pregnancy", "menstrual", "menopause",
		"pcos", "endometriosis", "fertility", "contraception", "breast",
		"ovarian", "cervical", "maternal", "gynecolog", "reproductive", "hormonal",
	}
}

// DefaultConfig returns configuration with sensible defaults.
// Gemini is the default LLM; embeddings default to a local Ollama model.
// Web search stays disabled until a key is supplied.
func DefaultConfig() Config {
	return Config{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
			BaseURL:  DefaultOllamaBaseURL,
		},
		LLM: LLMSettings{
			Provider:    AIProviderGemini,
			Model:       DefaultLLMModels()[AIProviderGemini],
			Temperature: Float64(DefaultTemperature),
			TopP:        DefaultTopP,
			TopK:        DefaultTopK,
			MaxTokens:   DefaultMaxTokens,
			Timeout:     DefaultLLMTimeout,
		},
		WebSearch: WebSearchSettings{
			SearchDepth:       "advanced",
			RequestsPerSecond: 1,
		},
		Retrieval: RetrievalSettings{
			Budget:         DefaultBudget,
			LocalK:         DefaultLocalK,
			WebCap:         DefaultWebCap,
			LocalPriority:  DefaultLocalPriority,
			MinRecords:     DefaultMinRecords,
			DomainKeywords: DefaultDomainKeywords(),
			BiasPhrase:     DefaultBiasPhrase,
		},
		Index: IndexSettings{
			Backend:    IndexSQLite,
			Collection: DefaultIndexCollection,
		},
		Ingest: IngestSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			Workers:      DefaultIngestWorkers,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.5-flash",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		// Gemini models
		"text-embedding-004": 768,
	}
}

// Float64 returns a pointer to v, for optional settings.
func Float64(v float64) *float64 {
	return &v
}
