package driven

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// LocalIndex is a persistent nearest-neighbour store of ingested chunks.
// From the query pipeline's point of view it is read-only.
type LocalIndex interface {
	// Query returns up to k hits ordered by ascending distance.
	// Hits with equal distance keep the backend's returned order.
	Query(ctx context.Context, vector []float32, k int) ([]IndexHit, error)

	// Upsert inserts or replaces chunks. Used only by ingestion.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// DeleteDocument removes every chunk of a document. Ingestion calls it
	// before upserting a document's new chunks.
	DeleteDocument(ctx context.Context, documentID string) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// IndexHit is a single nearest-neighbour result.
type IndexHit struct {
	// ChunkID identifies the stored chunk.
	ChunkID string

	// Content is the stored chunk text.
	Content string

	// Provenance is the origin recorded at ingestion.
	Provenance domain.Provenance

	// Distance is the backend's distance to the query (lower is closer).
	Distance float64
}
