package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

func chunk(id string, vec ...float32) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		DocumentID: "doc",
		Content:    "content " + id,
		Provenance: domain.Labeled(id + ".pdf"),
		Embedding:  vec,
	}
}

func TestLocalIndex_QueryNearest(t *testing.T) {
	ctx := context.Background()
	idx := NewLocalIndex()
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		chunk("far", 10, 10),
		chunk("near", 1, 0),
		chunk("mid", 3, 0),
	}))

	hits, err := idx.Query(ctx, []float32{0, 0}, 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].ChunkID)
	assert.Equal(t, "mid", hits[1].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Distance, 1e-9)
	assert.Equal(t, domain.Labeled("near.pdf"), hits[0].Provenance)
}

func TestLocalIndex_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	idx := NewLocalIndex()
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk("a", 1)}))

	updated := chunk("a", 2)
	updated.Content = "updated"
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{updated}))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := idx.Query(ctx, []float32{2}, 5)
	require.NoError(t, err)
	assert.Equal(t, "updated", hits[0].Content)
}

func TestLocalIndex_EmptyAndZeroK(t *testing.T) {
	ctx := context.Background()
	idx := NewLocalIndex()

	hits, err := idx.Query(ctx, []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk("a", 1)}))
	hits, err = idx.Query(ctx, []float32{1}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLocalIndex_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalIndex().Query(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalIndex_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	idx := NewLocalIndex()
	other := chunk("c", 3)
	other.DocumentID = "other"
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk("a", 1), other, chunk("b", 2)}))

	require.NoError(t, idx.DeleteDocument(ctx, "doc"))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	hits, err := idx.Query(ctx, []float32{1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c", hits[0].ChunkID)

	require.NoError(t, idx.DeleteDocument(ctx, "missing"))
}

func TestLocalIndex_QueryDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewLocalIndex()
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk("a", 1, 2, 3)}))

	_, err := idx.Query(ctx, []float32{1, 2}, 5)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
