package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// IndexBackend selects the local index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexSQLite stores vectors in a local SQLite file.
	IndexSQLite IndexBackend = "sqlite"

	// IndexMemory keeps vectors in process memory.
	IndexMemory IndexBackend = "memory"

	// IndexPgvector stores vectors in PostgreSQL with the pgvector extension.
	IndexPgvector IndexBackend = "pgvector"

	// IndexMilvus stores vectors in a Milvus collection.
	IndexMilvus IndexBackend = "milvus"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexSQLite, IndexMemory, IndexPgvector, IndexMilvus:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b IndexBackend) Description() string {
	switch b {
	case IndexSQLite:
		return "SQLite (local file)"
	case IndexMemory:
		return "In-memory (not persisted)"
	case IndexPgvector:
		return "PostgreSQL + pgvector"
	case IndexMilvus:
		return "Milvus"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// CacheAddr is an optional redis address for caching query embeddings.
	CacheAddr string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Temperature is the sampling temperature. Nil means
	// DefaultTemperature; zero is a valid, deterministic setting.
	Temperature *float64

	// TopP is the nucleus sampling probability mass.
	TopP float64

	// TopK limits sampling to the K most likely tokens.
	TopK int

	// MaxTokens caps the length of the answer.
	MaxTokens int

	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// SamplingTemperature returns Temperature, or DefaultTemperature when unset.
func (l LLMSettings) SamplingTemperature() float64 {
	if l.Temperature == nil {
		return DefaultTemperature
	}
	return *l.Temperature
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// MinWebSearchKeyLength is the shortest API key treated as real.
const MinWebSearchKeyLength = 11

// placeholderWebSearchKey is the sample value shipped in example env files.
const placeholderWebSearchKey = "dummy_key"

// WebSearchSettings holds web search provider configuration.
type WebSearchSettings struct {
	// APIKey is the Tavily API key.
	APIKey string

	// BaseURL is the API endpoint.
	BaseURL string

	// SearchDepth is "basic" or "advanced".
	SearchDepth string

	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond float64
}

// IsConfigured returns true if the key looks like a real credential.
func (w WebSearchSettings) IsConfigured() bool {
	return w.APIKey != "" && w.APIKey != placeholderWebSearchKey &&
		len(w.APIKey) >= MinWebSearchKeyLength
}

// RetrievalSettings controls the fusion policy.
type RetrievalSettings struct {
	// Budget is the default maximum number of records per answer.
	Budget int

	// LocalK is the number of nearest neighbours requested from the index.
	LocalK int

	// WebCap is the maximum number of web results kept.
	WebCap int

	// LocalPriority is the number of LOCAL records placed before any WEB record.
	LocalPriority int

	// MinRecords triggers the secondary lookup when fewer records were found.
	MinRecords int

	// DomainKeywords suppress the bias phrase when present in a question.
	DomainKeywords []string

	// BiasPhrase is prepended to questions without a domain keyword.
	BiasPhrase string
}

// IndexSettings selects and configures the local index.
type IndexSettings struct {
	// Backend is the index implementation.
	Backend IndexBackend

	// Path is the SQLite data directory; empty means ~/.fusionqa/data.
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string

	// Address is the Milvus endpoint.
	Address string

	// Collection is the table or collection name.
	Collection string
}

// IngestSettings controls chunking and embedding during ingestion.
type IngestSettings struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int

	// Workers is the embedding worker pool size.
	Workers int
}

// Config is the complete application configuration.
// It is built once at start-up and passed to constructors; no component
// reads process environment on its own.
type Config struct {
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	WebSearch   WebSearchSettings
	Retrieval   RetrievalSettings
	Index       IndexSettings
	Ingest      IngestSettings
	MetricsAddr string
}
