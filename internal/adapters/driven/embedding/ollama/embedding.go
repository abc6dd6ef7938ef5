// Package ollama provides an embedding service adapter using a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/ollamaclient"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama server URL. Empty means OLLAMA_HOST.
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions overrides the known vector size for Model.
	Dimensions int
}

// EmbeddingService generates embeddings using Ollama.
type EmbeddingService struct {
	client     *api.Client
	model      string
	dimensions int
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = domain.EmbeddingDimensions()[cfg.Model]
	}

	client, err := ollamaclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.embed(ctx, text, 1)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	return s.embed(ctx, texts, len(texts))
}

func (s *EmbeddingService) embed(ctx context.Context, input any, want int) ([][]float32, error) {
	resp, err := s.client.Embed(ctx, &api.EmbedRequest{
		Model: s.model,
		Input: input,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", ollamaclient.Classify(ctx, err))
	}
	if len(resp.Embeddings) != want {
		return nil, fmt.Errorf("ollama embed: %w: got %d embeddings for %d inputs",
			domain.ErrMalformedResponse, len(resp.Embeddings), want)
	}
	for _, vec := range resp.Embeddings {
		if len(vec) == 0 {
			return nil, fmt.Errorf("ollama embed: %w: empty embedding", domain.ErrMalformedResponse)
		}
	}
	if s.dimensions == 0 {
		s.dimensions = len(resp.Embeddings[0])
	}
	return resp.Embeddings, nil
}

// Dimensions returns the vector size. Unknown models report 0 until the
// first successful embedding.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks that the Ollama server is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", ollamaclient.Classify(ctx, err))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
