package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		p := New(WithOverlap(100))
		if p.overlap != 100 {
			t.Errorf("expected overlap 100, got %d", p.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{ID: "test-doc"}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{
		ID:         "test-doc",
		Content:    "Iron deficiency is common during pregnancy.",
		Provenance: domain.Labeled("anaemia.pdf"),
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Content != doc.Content {
		t.Errorf("expected content %q, got %q", doc.Content, c.Content)
	}
	if c.DocumentID != "test-doc" || c.Position != 0 || c.ID == "" {
		t.Errorf("unexpected chunk identity: %+v", c)
	}
	if c.Provenance != doc.Provenance {
		t.Errorf("expected provenance %+v, got %+v", doc.Provenance, c.Provenance)
	}
}

func TestProcessor_Process_SplitsOnParagraphs(t *testing.T) {
	p := New(WithChunkSize(60), WithOverlap(0))
	paragraphs := []string{
		strings.Repeat("a", 50),
		strings.Repeat("b", 50),
		strings.Repeat("c", 50),
	}
	doc := &domain.Document{ID: "d", Content: strings.Join(paragraphs, "\n\n")}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Content != paragraphs[i] {
			t.Errorf("chunk %d: expected paragraph %q, got %q", i, paragraphs[i], c.Content)
		}
		if c.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, c.Position)
		}
	}
}

func TestProcessor_Process_RespectsChunkSize(t *testing.T) {
	p := New(WithChunkSize(80), WithOverlap(20))
	words := make([]string, 200)
	for i := range words {
		words[i] = "word"
	}
	doc := &domain.Document{ID: "d", Content: strings.Join(words, " ")}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c.Content); n > 80 {
			t.Errorf("chunk %d has %d characters, limit 80", i, n)
		}
	}
}

func TestProcessor_Process_UniqueIDs(t *testing.T) {
	p := New(WithChunkSize(20), WithOverlap(0))
	doc := &domain.Document{ID: "d", Content: strings.Repeat("lorem ipsum ", 20)}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for _, c := range chunks {
		if seen[c.ID] {
			t.Errorf("duplicate chunk ID %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestProcessor_Process_StableIDs(t *testing.T) {
	p := New(WithChunkSize(20), WithOverlap(0))
	doc := &domain.Document{ID: "d", Content: strings.Repeat("lorem ipsum ", 20)}

	first, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d ID changed: %s then %s", i, first[i].ID, second[i].ID)
		}
		if want := domain.ChunkID("d", i); first[i].ID != want {
			t.Errorf("chunk %d ID = %s, want %s", i, first[i].ID, want)
		}
	}
}

func TestProcessor_Process_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.Document{ID: "d", Content: "x"}, nil)
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}
