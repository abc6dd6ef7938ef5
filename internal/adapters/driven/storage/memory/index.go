package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/vecutil"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure LocalIndex implements the interface.
var _ driven.LocalIndex = (*LocalIndex)(nil)

// LocalIndex is a brute-force vector index held in memory.
type LocalIndex struct {
	mu     sync.RWMutex
	order  []string
	chunks map[string]domain.Chunk
}

// NewLocalIndex creates an empty index.
func NewLocalIndex() *LocalIndex {
	return &LocalIndex{chunks: make(map[string]domain.Chunk)}
}

// Query returns the k chunks nearest to vec by L2 distance.
func (i *LocalIndex) Query(ctx context.Context, vec []float32, k int) ([]driven.IndexHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []driven.IndexHit{}, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	hits := make([]driven.IndexHit, 0, len(i.order))
	for _, id := range i.order {
		c := i.chunks[id]
		dist, err := vecutil.L2(vec, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		hits = append(hits, driven.IndexHit{
			ChunkID:    c.ID,
			Content:    c.Content,
			Provenance: c.Provenance,
			Distance:   dist,
		})
	}

	return vecutil.Nearest(hits, k), nil
}

// Upsert inserts chunks or replaces those with the same ID.
func (i *LocalIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, c := range chunks {
		if _, exists := i.chunks[c.ID]; !exists {
			i.order = append(i.order, c.ID)
		}
		i.chunks[c.ID] = c
	}
	return nil
}

// DeleteDocument removes every chunk of a document.
func (i *LocalIndex) DeleteDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	kept := i.order[:0]
	for _, id := range i.order {
		if i.chunks[id].DocumentID == documentID {
			delete(i.chunks, id)
			continue
		}
		kept = append(kept, id)
	}
	i.order = kept
	return nil
}

// Count returns the number of stored chunks.
func (i *LocalIndex) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.chunks), nil
}

// Close is a no-op.
func (i *LocalIndex) Close() error { return nil }
