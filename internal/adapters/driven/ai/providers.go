package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/milvus"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/websearch/tavily"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// CreateLocalIndex opens the configured index backend. dims is the
// embedding size; backends that size their schema need it on first use.
func CreateLocalIndex(ctx context.Context, settings domain.IndexSettings, dims int) (driven.LocalIndex, error) {
	switch settings.Backend {
	case domain.IndexSQLite, "":
		return sqlite.NewLocalIndex(settings.Path)

	case domain.IndexMemory:
		return memory.NewLocalIndex(), nil

	case domain.IndexPgvector:
		return pgvector.NewLocalIndex(ctx, settings.DSN, dims)

	case domain.IndexMilvus:
		return milvus.NewLocalIndex(ctx, milvus.Config{
			Address:    settings.Address,
			Collection: settings.Collection,
			Dimension:  dims,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported index backend: %s", domain.ErrInvalidInput, settings.Backend)
	}
}

// CreateWebSearch creates the web search provider.
// Returns nil, nil when no valid API key is configured.
func CreateWebSearch(settings domain.WebSearchSettings) (driven.WebSearchProvider, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}
	provider, err := tavily.New(tavily.Config{
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		SearchDepth:       settings.SearchDepth,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// embeddingDimensions returns the vector size for an embedding service,
// falling back to the table of known models.
func embeddingDimensions(svc driven.EmbeddingService) int {
	if d := svc.Dimensions(); d > 0 {
		return d
	}
	return domain.EmbeddingDimensions()[svc.ModelName()]
}
