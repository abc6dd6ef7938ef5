// Package domain defines the core entities for fusionqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: a provenance-tagged piece of retrieved context
//   - AnswerBundle: a synthesized answer with aligned citations
//   - Document / Chunk: ingestion-side units stored in the local index
//   - Config: the explicit configuration passed to every component
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
