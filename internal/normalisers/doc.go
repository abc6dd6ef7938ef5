// Package normalisers provides implementations of the Normaliser interface
// for the supported ingestion formats: PDF, HTML, markdown and plain text.
// Each normaliser knows how to extract text content from a specific MIME
// type and decides the provenance of the resulting document.
//
// The Registry picks the highest-priority normaliser for a MIME type.
package normalisers
