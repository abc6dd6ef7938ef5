package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/vecutil"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure LocalIndex implements the interface.
var _ driven.LocalIndex = (*LocalIndex)(nil)

// FileName is the database file created inside the data directory.
const FileName = "index.db"

// LocalIndex is a SQLite-backed vector index.
type LocalIndex struct {
	db   *sql.DB
	path string
}

// NewLocalIndex opens or creates the index in dataDir.
// If dataDir is empty, defaults to ~/.fusionqa/data.
func NewLocalIndex(dataDir string) (*LocalIndex, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fusionqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, FileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &LocalIndex{db: db, path: dbPath}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return idx, nil
}

// Close closes the database connection.
func (i *LocalIndex) Close() error {
	return i.db.Close()
}

// Path returns the database file path.
func (i *LocalIndex) Path() string {
	return i.path
}

// migrate runs all pending up migrations in version order.
func (i *LocalIndex) migrate(fsys fs.FS) error {
	_, err := i.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := i.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_chunks.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := i.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := i.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts chunks or replaces those with the same ID.
// A replaced chunk keeps its original insertion position.
func (i *LocalIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, label, labeled, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			content = excluded.content,
			position = excluded.position,
			label = excluded.label,
			labeled = excluded.labeled,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.Content, c.Position,
			c.Provenance.Label, c.Provenance.Labeled, vecutil.Encode(c.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query scans every stored chunk and returns the k nearest by L2 distance.
// Rows are read in insertion order so equal distances stay in that order.
func (i *LocalIndex) Query(ctx context.Context, vec []float32, k int) ([]driven.IndexHit, error) {
	if k <= 0 {
		return []driven.IndexHit{}, nil
	}

	rows, err := i.db.QueryContext(ctx, `
		SELECT id, content, label, labeled, embedding
		FROM chunks ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.IndexHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			hit     driven.IndexHit
			labeled bool
			blob    []byte
		)
		if err := rows.Scan(&hit.ChunkID, &hit.Content, &hit.Provenance.Label, &labeled, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		hit.Provenance.Labeled = labeled

		emb, err := vecutil.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", hit.ChunkID, err)
		}
		hit.Distance, err = vecutil.L2(vec, emb)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", hit.ChunkID, err)
		}
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return vecutil.Nearest(hits, k), nil
}

// Count returns the number of stored chunks.
func (i *LocalIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// DeleteDocument removes every chunk of a document.
func (i *LocalIndex) DeleteDocument(ctx context.Context, documentID string) error {
	if _, err := i.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting document chunks: %w", err)
	}
	return nil
}
