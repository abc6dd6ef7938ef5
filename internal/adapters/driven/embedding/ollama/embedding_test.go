package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

func newTestService(t *testing.T, cfg Config, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	svc, err := NewEmbeddingService(cfg)
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
	assert.NoError(t, svc.Close())
}

func TestEmbeddingService_Embed(t *testing.T) {
	svc := newTestService(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req api.EmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, "asthma triggers", req.Input)

		_, _ = w.Write([]byte(`{"model":"nomic-embed-text","embeddings":[[0.1,0.2,0.3]]}`))
	})

	vec, err := svc.Embed(context.Background(), "asthma triggers")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	svc := newTestService(t, Config{Model: "custom-embed"}, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.Input)

		_, _ = w.Write([]byte(`{"embeddings":[[1,0],[0,1]]}`))
	})
	assert.Zero(t, svc.Dimensions())

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, 2, svc.Dimensions())
}

func TestEmbeddingService_EmbedBatch_Empty(t *testing.T) {
	svc := newTestService(t, Config{}, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	vecs, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestEmbeddingService_Embed_CountMismatch(t *testing.T) {
	svc := newTestService(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	})

	_, err := svc.Embed(context.Background(), "x")

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestEmbeddingService_Embed_ModelMissing(t *testing.T) {
	svc := newTestService(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"nomic-embed-text\" not found, try pulling it first"}`))
	})

	_, err := svc.Embed(context.Background(), "x")

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestEmbeddingService_Ping(t *testing.T) {
	svc := newTestService(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}
