package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDocument_Fields tests Document structure fields
func TestDocument_Fields(t *testing.T) {
	now := time.Now()

	doc := Document{
		ID:         "doc-123",
		URI:        "/docs/pcos-guide.pdf",
		Title:      "PCOS Guide",
		Content:    "Polycystic ovary syndrome affects...",
		Provenance: FileProvenance("/docs/pcos-guide.pdf"),
		IngestedAt: now,
	}

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, "pcos-guide.pdf", doc.Provenance.Label)
	assert.True(t, doc.Provenance.Labeled)
	assert.Equal(t, now, doc.IngestedAt)
}

func TestChunk_InheritsProvenance(t *testing.T) {
	doc := Document{ID: "doc-1", Provenance: Labeled("Menopause FAQ")}

	chunk := Chunk{
		ID:         "chunk-1",
		DocumentID: doc.ID,
		Content:    "Hot flushes",
		Position:   0,
		Provenance: doc.Provenance,
	}

	assert.Equal(t, doc.Provenance, chunk.Provenance)
	assert.Equal(t, "Menopause FAQ", chunk.Provenance.Display(4))
}

func TestChunk_UnlabeledDisplay(t *testing.T) {
	chunk := Chunk{ID: "chunk-2", Provenance: Unlabeled()}

	assert.Equal(t, "Document 3", chunk.Provenance.Display(3))
}

func TestIngestReport_Add(t *testing.T) {
	var total IngestReport

	total.Add(IngestReport{Documents: 1, Chunks: 4})
	total.Add(IngestReport{Documents: 2, Chunks: 7, Skipped: []string{"scan.png"}})
	total.Add(IngestReport{Skipped: []string{"archive.zip"}})

	assert.Equal(t, 3, total.Documents)
	assert.Equal(t, 11, total.Chunks)
	assert.Equal(t, []string{"scan.png", "archive.zip"}, total.Skipped)
}
