// Package milvus provides a LocalIndex backed by a Milvus collection.
package milvus

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/vecutil"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure LocalIndex implements the interface.
var _ driven.LocalIndex = (*LocalIndex)(nil)

// Default configuration values.
const (
	DefaultAddress    = "localhost:19530"
	DefaultCollection = "fusionqa_chunks"
)

// Field names.
const (
	fieldID        = "id"
	fieldDocument  = "document_id"
	fieldContent   = "content"
	fieldPosition  = "position"
	fieldLabel     = "label"
	fieldLabeled   = "labeled"
	fieldEmbedding = "embedding"
)

var outputFields = []string{fieldContent, fieldLabel, fieldLabeled}

// Config holds connection and collection settings.
type Config struct {
	Address    string
	Collection string

	// Dimension is required to create the collection. It is ignored when
	// the collection already exists.
	Dimension int
}

// LocalIndex stores chunks in Milvus and searches by L2 distance.
type LocalIndex struct {
	client     *milvusclient.Client
	collection string
}

// NewLocalIndex connects to Milvus and ensures the collection exists and is loaded.
func NewLocalIndex(ctx context.Context, cfg Config) (*LocalIndex, error) {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("milvus: connect: %w", err)
	}

	idx := &LocalIndex{client: c, collection: cfg.Collection}
	if err := idx.ensureCollection(ctx, cfg.Dimension); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	return idx, nil
}

func (i *LocalIndex) ensureCollection(ctx context.Context, dims int) error {
	exists, err := i.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(i.collection))
	if err != nil {
		return fmt.Errorf("milvus: check collection: %w", err)
	}

	if !exists {
		if dims <= 0 {
			return fmt.Errorf("milvus: %w: embedding dimension unknown, cannot create collection",
				domain.ErrNotConfigured)
		}
		if err := i.client.CreateCollection(ctx,
			milvusclient.NewCreateCollectionOption(i.collection, collectionSchema(i.collection, dims))); err != nil {
			return fmt.Errorf("milvus: create collection: %w", err)
		}

		task, err := i.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(
			i.collection, fieldEmbedding, index.NewIvfFlatIndex(entity.L2, 128)))
		if err != nil {
			return fmt.Errorf("milvus: create index: %w", err)
		}
		if err := task.Await(ctx); err != nil {
			return fmt.Errorf("milvus: wait for index: %w", err)
		}
	}

	load, err := i.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(i.collection))
	if err != nil {
		return fmt.Errorf("milvus: load collection: %w", err)
	}
	if err := load.Await(ctx); err != nil {
		return fmt.Errorf("milvus: wait for load: %w", err)
	}
	return nil
}

func collectionSchema(name string, dims int) *entity.Schema {
	return entity.NewSchema().
		WithName(name).
		WithDescription("fusionqa ingested chunks").
		WithField(entity.NewField().WithName(fieldID).WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(128).WithIsPrimaryKey(true)).
		WithField(entity.NewField().WithName(fieldDocument).WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(128)).
		WithField(entity.NewField().WithName(fieldContent).WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(65535)).
		WithField(entity.NewField().WithName(fieldPosition).WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().WithName(fieldLabel).WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(1024)).
		WithField(entity.NewField().WithName(fieldLabeled).WithDataType(entity.FieldTypeBool)).
		WithField(entity.NewField().WithName(fieldEmbedding).WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dims)))
}

// chunkColumns converts chunks into insert columns. All embeddings must
// share one dimension.
func chunkColumns(chunks []domain.Chunk) ([]column.Column, error) {
	dims := len(chunks[0].Embedding)
	ids := make([]string, len(chunks))
	docs := make([]string, len(chunks))
	contents := make([]string, len(chunks))
	positions := make([]int64, len(chunks))
	labels := make([]string, len(chunks))
	labeled := make([]bool, len(chunks))
	vectors := make([][]float32, len(chunks))

	for n, c := range chunks {
		if len(c.Embedding) != dims || dims == 0 {
			return nil, fmt.Errorf("milvus: %w: chunk %s has %d dimensions, want %d",
				domain.ErrInvalidInput, c.ID, len(c.Embedding), dims)
		}
		ids[n] = c.ID
		docs[n] = c.DocumentID
		contents[n] = c.Content
		positions[n] = int64(c.Position)
		labels[n] = c.Provenance.Label
		labeled[n] = c.Provenance.Labeled
		vectors[n] = c.Embedding
	}

	return []column.Column{
		column.NewColumnVarChar(fieldID, ids),
		column.NewColumnVarChar(fieldDocument, docs),
		column.NewColumnVarChar(fieldContent, contents),
		column.NewColumnInt64(fieldPosition, positions),
		column.NewColumnVarChar(fieldLabel, labels),
		column.NewColumnBool(fieldLabeled, labeled),
		column.NewColumnFloatVector(fieldEmbedding, dims, vectors),
	}, nil
}

// Upsert inserts chunks or replaces those with the same ID, then flushes
// so they are searchable immediately.
func (i *LocalIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	cols, err := chunkColumns(chunks)
	if err != nil {
		return err
	}

	if _, err := i.client.Upsert(ctx, milvusclient.NewColumnBasedInsertOption(i.collection, cols...)); err != nil {
		return fmt.Errorf("milvus: upsert: %w", err)
	}

	flush, err := i.client.Flush(ctx, milvusclient.NewFlushOption(i.collection))
	if err != nil {
		return fmt.Errorf("milvus: flush: %w", err)
	}
	if err := flush.Await(ctx); err != nil {
		return fmt.Errorf("milvus: wait for flush: %w", err)
	}
	return nil
}

// Query returns the k nearest chunks.
func (i *LocalIndex) Query(ctx context.Context, vec []float32, k int) ([]driven.IndexHit, error) {
	if k <= 0 {
		return []driven.IndexHit{}, nil
	}

	results, err := i.client.Search(ctx, milvusclient.NewSearchOption(
		i.collection, k, []entity.Vector{entity.FloatVector(vec)},
	).WithANNSField(fieldEmbedding).
		WithSearchParam("nprobe", "16").
		WithOutputFields(outputFields...))
	if err != nil {
		return nil, fmt.Errorf("milvus: search: %w", err)
	}
	if len(results) == 0 {
		return []driven.IndexHit{}, nil
	}
	return hitsFromResult(results[0])
}

// hitsFromResult converts one search result set into index hits. Milvus
// reports squared L2, so scores are square-rooted to match other backends.
func hitsFromResult(rs milvusclient.ResultSet) ([]driven.IndexHit, error) {
	if rs.Err != nil {
		return nil, fmt.Errorf("milvus: search result: %w", rs.Err)
	}

	ids, ok := rs.IDs.(*column.ColumnVarChar)
	if !ok && rs.ResultCount > 0 {
		return nil, fmt.Errorf("milvus: %w: unexpected id column %T", domain.ErrMalformedResponse, rs.IDs)
	}

	var (
		contents, labels []string
		labeled          []bool
	)
	for _, field := range rs.Fields {
		switch col := field.(type) {
		case *column.ColumnVarChar:
			switch col.Name() {
			case fieldContent:
				contents = col.Data()
			case fieldLabel:
				labels = col.Data()
			}
		case *column.ColumnBool:
			if col.Name() == fieldLabeled {
				labeled = col.Data()
			}
		}
	}

	hits := make([]driven.IndexHit, 0, rs.ResultCount)
	for n := 0; n < rs.ResultCount; n++ {
		hit := driven.IndexHit{
			ChunkID:  ids.Data()[n],
			Distance: math.Sqrt(math.Max(float64(rs.Scores[n]), 0)),
		}
		if n < len(contents) {
			hit.Content = contents[n]
		}
		if n < len(labels) && n < len(labeled) {
			hit.Provenance = domain.Provenance{Label: labels[n], Labeled: labeled[n]}
		}
		hits = append(hits, hit)
	}
	return vecutil.Nearest(hits, len(hits)), nil
}

// DeleteDocument removes every chunk of a document.
func (i *LocalIndex) DeleteDocument(ctx context.Context, documentID string) error {
	opt := milvusclient.NewDeleteOption(i.collection).WithExpr(documentFilter(documentID))
	if _, err := i.client.Delete(ctx, opt); err != nil {
		return fmt.Errorf("milvus: delete document: %w", err)
	}
	return nil
}

// documentFilter builds the boolean expression selecting a document's chunks.
func documentFilter(documentID string) string {
	return fmt.Sprintf("%s == %s", fieldDocument, strconv.Quote(documentID))
}

// Count returns the collection row count reported by Milvus.
func (i *LocalIndex) Count(ctx context.Context) (int, error) {
	stats, err := i.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(i.collection))
	if err != nil {
		return 0, fmt.Errorf("milvus: collection stats: %w", err)
	}
	val, ok := stats["row_count"]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("milvus: %w: row_count %q", domain.ErrMalformedResponse, val)
	}
	return n, nil
}

// Close closes the client connection.
func (i *LocalIndex) Close() error {
	return i.client.Close(context.Background())
}
