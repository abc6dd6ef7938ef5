package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// mockEmbeddingService is a mock implementation of EmbeddingService.
type mockEmbeddingService struct {
	embedding []float32
	err       error
	calls     int
	mu        sync.Mutex
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.embedding == nil {
		return []float32{0.1, 0.2, 0.3}, nil
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int   { return 3 }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.err }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLocalIndex is a mock implementation of LocalIndex.
type mockLocalIndex struct {
	hits      []driven.IndexHit
	err       error
	lastK     int
	upserted  []domain.Chunk
	upsertErr error
	deleted   []string
	deleteErr error
	mu        sync.Mutex
}

func (m *mockLocalIndex) Query(_ context.Context, _ []float32, k int) ([]driven.IndexHit, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if len(m.hits) > k {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockLocalIndex) Upsert(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, chunks...)
	return nil
}

func (m *mockLocalIndex) DeleteDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, documentID)
	kept := m.upserted[:0]
	for _, c := range m.upserted {
		if c.DocumentID != documentID {
			kept = append(kept, c)
		}
	}
	m.upserted = kept
	return nil
}

func (m *mockLocalIndex) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.upserted), nil
}

func (m *mockLocalIndex) Close() error { return nil }

// mockWebSearch is a mock implementation of WebSearchProvider.
type mockWebSearch struct {
	results   []driven.WebResult
	err       error
	lastMax   int
	lastQuery string
	calls     int
}

func (m *mockWebSearch) Search(_ context.Context, query string, max int) ([]driven.WebResult, error) {
	m.calls++
	m.lastMax = max
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockWebSearch) Name() string { return "mock-web" }

// mockLookup is a mock implementation of ContextLookup.
type mockLookup struct {
	records []domain.Record
	err     error
	calls   int
}

func (m *mockLookup) Lookup(_ context.Context, _ string) ([]domain.Record, error) {
	m.calls++
	return m.records, m.err
}

func (m *mockLookup) Name() string { return "mock-lookup" }

// mockLLMService is a mock implementation of LLMService.
type mockLLMService struct {
	response   string
	err        error
	delay      time.Duration
	ignoreCtx  bool
	lastPrompt string
	lastOpts   driven.GenerateOptions
	prompts    []string
	respond    func(prompt string) (string, error)
	mu         sync.Mutex
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.lastPrompt = prompt
	m.lastOpts = opts
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.delay > 0 {
		if m.ignoreCtx {
			time.Sleep(m.delay)
		} else {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	if m.respond != nil {
		return m.respond(prompt)
	}
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore is a mock implementation of PromptStore.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockMetrics records calls for assertions.
type mockMetrics struct {
	mu       sync.Mutex
	outcomes map[string][]string
	latency  map[string]int
	returned map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		outcomes: make(map[string][]string),
		latency:  make(map[string]int),
		returned: make(map[string]int),
	}
}

func (m *mockMetrics) ProviderOutcome(provider, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[provider] = append(m.outcomes[provider], status)
}

func (m *mockMetrics) ObserveLatency(op string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency[op]++
}

func (m *mockMetrics) RecordsReturned(kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returned[kind] += n
}

// localHits builds n labeled hits with increasing distance.
func localHits(n int) []driven.IndexHit {
	hits := make([]driven.IndexHit, n)
	for i := range hits {
		hits[i] = driven.IndexHit{
			ChunkID:    string(rune('a' + i)),
			Content:    "local content " + string(rune('A'+i)),
			Provenance: domain.Labeled("doc" + string(rune('A'+i)) + ".pdf"),
			Distance:   float64(i+1) * 0.1,
		}
	}
	return hits
}

// webResults builds n web results.
func webResults(n int) []driven.WebResult {
	results := make([]driven.WebResult, n)
	for i := range results {
		results[i] = driven.WebResult{
			Title:   "Web " + string(rune('A'+i)),
			URL:     "https://example.com/" + string(rune('a'+i)),
			Content: "web content " + string(rune('A'+i)),
		}
	}
	return results
}

func timeNow() time.Time { return time.Now() }
