// Package pgvector provides a LocalIndex backed by PostgreSQL with the
// pgvector extension.
package pgvector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure LocalIndex implements the interface.
var _ driven.LocalIndex = (*LocalIndex)(nil)

// DefaultTable is the chunk table name.
const DefaultTable = "fusionqa_chunks"

// LocalIndex stores chunks in a pgvector table and queries by L2 distance.
type LocalIndex struct {
	pool  *pgxpool.Pool
	table string
}

// NewLocalIndex connects to dsn and ensures the schema exists. dims fixes the
// vector column size and enables an HNSW index; 0 leaves the column unsized.
func NewLocalIndex(ctx context.Context, dsn string, dims int) (*LocalIndex, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pgvector: %w: DSN is required", domain.ErrNotConfigured)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgvector: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector: ping: %w", err)
	}

	idx := &LocalIndex{pool: pool, table: DefaultTable}
	if err := idx.initialize(ctx, dims); err != nil {
		pool.Close()
		return nil, err
	}
	return idx, nil
}

func (i *LocalIndex) initialize(ctx context.Context, dims int) error {
	for _, stmt := range schema(i.table, dims) {
		if _, err := i.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("pgvector: initialize schema: %w", err)
		}
	}
	return nil
}

// schema returns the DDL for the chunk table. seq preserves insertion order
// for equal distances.
func schema(table string, dims int) []string {
	column := "vector"
	if dims > 0 {
		column = fmt.Sprintf("vector(%d)", dims)
	}
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			content TEXT NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			labeled BOOLEAN NOT NULL DEFAULT FALSE,
			embedding %s NOT NULL
		)`, table, column),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_document_idx ON %s (document_id)`, table, table),
	}
	if dims > 0 {
		stmts = append(stmts, fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_l2_ops)`,
			table, table))
	}
	return stmts
}

// Upsert inserts chunks or replaces those with the same ID in one batch.
func (i *LocalIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, content, position, label, labeled, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7::vector)
		ON CONFLICT (id) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			content = EXCLUDED.content,
			position = EXCLUDED.position,
			label = EXCLUDED.label,
			labeled = EXCLUDED.labeled,
			embedding = EXCLUDED.embedding
	`, i.table)

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(query, c.ID, c.DocumentID, c.Content, c.Position,
			c.Provenance.Label, c.Provenance.Labeled, vectorLiteral(c.Embedding))
	}

	if err := i.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("pgvector: upsert: %w", err)
	}
	return nil
}

// Query returns the k nearest chunks by L2 distance.
func (i *LocalIndex) Query(ctx context.Context, vec []float32, k int) ([]driven.IndexHit, error) {
	if k <= 0 {
		return []driven.IndexHit{}, nil
	}

	rows, err := i.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, content, label, labeled, embedding <-> $1::vector AS distance
		FROM %s
		ORDER BY distance, seq
		LIMIT $2
	`, i.table), vectorLiteral(vec), k)
	if err != nil {
		return nil, fmt.Errorf("pgvector: query: %w", err)
	}
	defer rows.Close()

	hits := make([]driven.IndexHit, 0, k)
	for rows.Next() {
		var hit driven.IndexHit
		if err := rows.Scan(&hit.ChunkID, &hit.Content, &hit.Provenance.Label,
			&hit.Provenance.Labeled, &hit.Distance); err != nil {
			return nil, fmt.Errorf("pgvector: scan: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgvector: iterate: %w", err)
	}
	return hits, nil
}

// DeleteDocument removes every chunk of a document.
func (i *LocalIndex) DeleteDocument(ctx context.Context, documentID string) error {
	if _, err := i.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, i.table), documentID); err != nil {
		return fmt.Errorf("pgvector: delete document: %w", err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (i *LocalIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, i.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgvector: count: %w", err)
	}
	return n, nil
}

// Close closes the connection pool.
func (i *LocalIndex) Close() error {
	i.pool.Close()
	return nil
}

// vectorLiteral formats v in pgvector's text input form, e.g. "[1,2.5]".
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
