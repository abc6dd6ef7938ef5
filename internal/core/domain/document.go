package domain

import "time"

// RawDocument is unparsed content handed to a normaliser.
type RawDocument struct {
	// URI is the original location (file path or URL).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// Document is normalised text ready for chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, URL, etc).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation.
	Content string

	// Provenance is decided here, once, for every chunk of the document.
	Provenance Provenance

	// IngestedAt is when the document was read.
	IngestedAt time.Time
}

// Chunk is a unit of a document stored in the local index.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Provenance is copied from the parent document.
	Provenance Provenance

	// Embedding is the vector representation.
	Embedding []float32
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// Documents is the number of documents read.
	Documents int `json:"documents"`

	// Chunks is the number of chunks written to the index.
	Chunks int `json:"chunks"`

	// Skipped lists inputs that could not be ingested.
	Skipped []string `json:"skipped,omitempty"`
}

// Add merges another report into this one.
func (r *IngestReport) Add(other IngestReport) {
	r.Documents += other.Documents
	r.Chunks += other.Chunks
	r.Skipped = append(r.Skipped, other.Skipped...)
}
