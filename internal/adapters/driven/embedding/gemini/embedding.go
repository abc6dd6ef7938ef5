// Package gemini provides an embedding service adapter for the Gemini
// embedContent REST API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "text-embedding-004"
	DefaultTimeout = 30 * time.Second

	// maxBatch is the request limit of batchEmbedContents.
	maxBatch = 100
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// EmbeddingService generates embeddings with Gemini.
type EmbeddingService struct {
	api        *httpjson.Client
	baseURL    string
	model      string
	dimensions int
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type embedRequest struct {
	Model   string  `json:"model,omitempty"`
	Content content `json:"content"`
}

type embedding struct {
	Values []float32 `json:"values"`
}

type embedResponse struct {
	Embedding embedding `json:"embedding"`
}

type batchRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchResponse struct {
	Embeddings []embedding `json:"embeddings"`
}

// NewEmbeddingService creates a Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w: API key is required", domain.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	model := strings.TrimPrefix(cfg.Model, "models/")

	return &EmbeddingService{
		api: &httpjson.Client{
			HTTP:    &http.Client{Timeout: cfg.Timeout},
			Headers: map[string]string{"x-goog-api-key": cfg.APIKey},
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      model,
		dimensions: domain.EmbeddingDimensions()[model],
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embedRequest{Content: content{Parts: []part{{Text: text}}}}

	var resp embedResponse
	if err := s.api.Post(ctx, s.modelURL(":embedContent"), req, &resp); err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embed: %w: empty embedding", domain.ErrMalformedResponse)
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch embeds texts with batchEmbedContents, splitting into requests
// of at most 100 texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))

		req := batchRequest{Requests: make([]embedRequest, 0, end-start)}
		for _, text := range texts[start:end] {
			req.Requests = append(req.Requests, embedRequest{
				Model:   "models/" + s.model,
				Content: content{Parts: []part{{Text: text}}},
			})
		}

		var resp batchResponse
		if err := s.api.Post(ctx, s.modelURL(":batchEmbedContents"), req, &resp); err != nil {
			return nil, fmt.Errorf("gemini embed batch: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini embed batch: %w: got %d embeddings for %d texts",
				domain.ErrMalformedResponse, len(resp.Embeddings), end-start)
		}
		for _, e := range resp.Embeddings {
			out = append(out, e.Values)
		}
	}
	return out, nil
}

// Dimensions returns the known vector size for the model, or 0.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping fetches the model metadata.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.api.Get(ctx, s.modelURL(""), nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) modelURL(method string) string {
	return s.baseURL + "/models/" + url.PathEscape(s.model) + method
}
