package milvus

import (
	"context"
	"os"
	"testing"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// testAddrEnv names a Milvus server for integration tests.
const testAddrEnv = "FUSIONQA_TEST_MILVUS_ADDR"

func TestCollectionSchema(t *testing.T) {
	schema := collectionSchema("c", 4)

	assert.Equal(t, "c", schema.CollectionName)
	require.Len(t, schema.Fields, 7)
	assert.True(t, schema.Fields[0].PrimaryKey)
	assert.Equal(t, fieldEmbedding, schema.Fields[6].Name)
}

func TestChunkColumns(t *testing.T) {
	cols, err := chunkColumns([]domain.Chunk{
		{ID: "a", DocumentID: "d", Content: "x", Position: 2, Provenance: domain.Labeled("a.pdf"), Embedding: []float32{1, 2}},
		{ID: "b", DocumentID: "d", Content: "y", Provenance: domain.Unlabeled(), Embedding: []float32{3, 4}},
	})

	require.NoError(t, err)
	require.Len(t, cols, 7)
	assert.Equal(t, 2, cols[0].Len())
	assert.Equal(t, []int64{2, 0}, cols[3].(*column.ColumnInt64).Data())
	assert.Equal(t, []bool{true, false}, cols[5].(*column.ColumnBool).Data())
}

func TestChunkColumns_DimensionMismatch(t *testing.T) {
	_, err := chunkColumns([]domain.Chunk{
		{ID: "a", Embedding: []float32{1, 2}},
		{ID: "b", Embedding: []float32{1}},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentFilter(t *testing.T) {
	assert.Equal(t, `document_id == "doc-1"`, documentFilter("doc-1"))
	assert.Equal(t, `document_id == "a\"b"`, documentFilter(`a"b`))
}

func TestHitsFromResult(t *testing.T) {
	rs := milvusclient.ResultSet{
		ResultCount: 2,
		IDs:         column.NewColumnVarChar(fieldID, []string{"near", "far"}),
		Scores:      []float32{1, 16},
		Fields: []column.Column{
			column.NewColumnVarChar(fieldContent, []string{"near text", "far text"}),
			column.NewColumnVarChar(fieldLabel, []string{"guide.pdf", ""}),
			column.NewColumnBool(fieldLabeled, []bool{true, false}),
		},
	}

	hits, err := hitsFromResult(rs)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].ChunkID)
	assert.Equal(t, "near text", hits[0].Content)
	assert.InDelta(t, 1.0, hits[0].Distance, 1e-9)
	assert.Equal(t, domain.Labeled("guide.pdf"), hits[0].Provenance)
	assert.InDelta(t, 4.0, hits[1].Distance, 1e-9)
	assert.Equal(t, "Document 2", hits[1].Provenance.Display(2))
}

func TestHitsFromResult_WrongIDType(t *testing.T) {
	rs := milvusclient.ResultSet{
		ResultCount: 1,
		IDs:         column.NewColumnInt64(fieldID, []int64{1}),
		Scores:      []float32{0},
	}

	_, err := hitsFromResult(rs)

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestLocalIndex_Integration(t *testing.T) {
	addr := os.Getenv(testAddrEnv)
	if addr == "" {
		t.Skipf("%s not set, skipping milvus integration test", testAddrEnv)
	}
	ctx := context.Background()

	idx, err := NewLocalIndex(ctx, Config{Address: addr, Collection: "fusionqa_chunks_test", Dimension: 2})
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		{ID: "near", DocumentID: "d", Content: "near", Provenance: domain.Labeled("a.pdf"), Embedding: []float32{1, 0}},
		{ID: "far", DocumentID: "d", Content: "far", Provenance: domain.Unlabeled(), Embedding: []float32{10, 10}},
	}))

	hits, err := idx.Query(ctx, []float32{0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "near", hits[0].ChunkID)
}
