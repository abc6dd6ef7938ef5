// Package sqlite provides the default persistent LocalIndex.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Embeddings are stored as little-endian
// float32 blobs and queried by brute-force L2 distance, which is adequate for the
// corpus sizes a single-user CLI ingests.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.fusionqa/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
