package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// setupTestIndex creates an index in a temporary directory.
func setupTestIndex(t *testing.T) (*LocalIndex, string) {
	t.Helper()

	dir := t.TempDir()
	idx, err := NewLocalIndex(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return idx, dir
}

func chunk(id string, prov domain.Provenance, vec ...float32) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		DocumentID: "doc-" + id,
		Content:    "content " + id,
		Provenance: prov,
		Embedding:  vec,
	}
}

func TestNewLocalIndex_CreatesDatabase(t *testing.T) {
	idx, dir := setupTestIndex(t)

	assert.Equal(t, filepath.Join(dir, FileName), idx.Path())
	assert.FileExists(t, idx.Path())

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewLocalIndex_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx, err := NewLocalIndex(dir)
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk("a", domain.Labeled("a.pdf"), 1, 2)}))
	require.NoError(t, idx.Close())

	reopened, err := NewLocalIndex(dir)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var versions int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestLocalIndex_QueryNearest(t *testing.T) {
	ctx := context.Background()
	idx, _ := setupTestIndex(t)
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		chunk("far", domain.Labeled("far.pdf"), 10, 10),
		chunk("near", domain.Labeled("near.pdf"), 1, 0),
		chunk("mid", domain.Unlabeled(), 3, 0),
	}))

	hits, err := idx.Query(ctx, []float32{0, 0}, 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].ChunkID)
	assert.Equal(t, "content near", hits[0].Content)
	assert.Equal(t, domain.Labeled("near.pdf"), hits[0].Provenance)
	assert.InDelta(t, 1.0, hits[0].Distance, 1e-6)
	assert.Equal(t, "mid", hits[1].ChunkID)
	assert.False(t, hits[1].Provenance.Labeled)
}

func TestLocalIndex_QueryTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx, _ := setupTestIndex(t)
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		chunk("b", domain.Unlabeled(), 1),
		chunk("a", domain.Unlabeled(), -1),
		chunk("c", domain.Unlabeled(), 1),
	}))

	hits, err := idx.Query(ctx, []float32{0}, 3)

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{hits[0].ChunkID, hits[1].ChunkID, hits[2].ChunkID})
}

func TestLocalIndex_QueryNonPositiveK(t *testing.T) {
	idx, _ := setupTestIndex(t)

	hits, err := idx.Query(context.Background(), []float32{0}, 0)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLocalIndex_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	idx, _ := setupTestIndex(t)
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk("a", domain.Unlabeled(), 5)}))

	updated := chunk("a", domain.Labeled("guide.pdf"), 0)
	updated.Content = "updated"
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{updated}))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := idx.Query(ctx, []float32{0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "updated", hits[0].Content)
	assert.Zero(t, hits[0].Distance)
	assert.Equal(t, "guide.pdf", hits[0].Provenance.Display(1))
}

func TestLocalIndex_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	idx, _ := setupTestIndex(t)
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		chunk("a", domain.Unlabeled(), 1),
		chunk("b", domain.Unlabeled(), 2),
	}))

	require.NoError(t, idx.DeleteDocument(ctx, "doc-a"))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLocalIndex_CancelledContext(t *testing.T) {
	idx, _ := setupTestIndex(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Query(ctx, []float32{0}, 3)
	assert.Error(t, err)

	err = idx.Upsert(ctx, []domain.Chunk{chunk("a", domain.Unlabeled(), 1)})
	assert.Error(t, err)
}

func TestLocalIndex_QueryDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, _ := setupTestIndex(t)
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk("a", domain.Unlabeled(), 1, 2, 3)}))

	_, err := idx.Query(ctx, []float32{1, 2}, 5)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
