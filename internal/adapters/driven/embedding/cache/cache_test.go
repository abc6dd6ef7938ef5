package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct {
	calls      int
	batchCalls int
	vec        []float32
	err        error
	closed     bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	return m.vec, m.err
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vec
	}
	return out, m.err
}

func (m *mockEmbedder) Dimensions() int              { return len(m.vec) }
func (m *mockEmbedder) ModelName() string            { return "test-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error                 { m.closed = true; return nil }

func setup(t *testing.T, next *mockEmbedder) (*EmbeddingService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	svc := NewFromAddr(next, mr.Addr(), Config{})
	return svc, mr
}

func TestNew_Defaults(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "localhost:0"})
	defer func() { _ = client.Close() }()

	svc := New(&mockEmbedder{}, client, Config{})

	assert.Equal(t, DefaultTTL, svc.ttl)
	assert.Equal(t, DefaultKeyPrefix, svc.prefix)
}

func TestEmbed_CachesVector(t *testing.T) {
	next := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc, mr := setup(t, next)
	ctx := context.Background()

	first, err := svc.Embed(ctx, "menopause")
	require.NoError(t, err)
	second, err := svc.Embed(ctx, "menopause")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Len(t, mr.Keys(), 1)
	assert.Contains(t, mr.Keys()[0], DefaultKeyPrefix+"test-embed:")
	assert.Equal(t, DefaultTTL, mr.TTL(mr.Keys()[0]))
}

func TestEmbed_ExpiredEntryRecomputes(t *testing.T) {
	next := &mockEmbedder{vec: []float32{1}}
	svc, mr := setup(t, next)
	ctx := context.Background()

	_, err := svc.Embed(ctx, "q")
	require.NoError(t, err)
	mr.FastForward(DefaultTTL + time.Second)
	_, err = svc.Embed(ctx, "q")
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestEmbed_CorruptEntryIsReplaced(t *testing.T) {
	next := &mockEmbedder{vec: []float32{1, 2}}
	svc, mr := setup(t, next)
	require.NoError(t, mr.Set(svc.key("q"), "xyz"))

	vec, err := svc.Embed(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
	assert.Equal(t, 1, next.calls)
}

func TestEmbed_ErrorNotCached(t *testing.T) {
	next := &mockEmbedder{err: errors.New("down")}
	svc, mr := setup(t, next)

	_, err := svc.Embed(context.Background(), "q")

	assert.EqualError(t, err, "down")
	assert.Empty(t, mr.Keys())
}

func TestEmbed_RedisDownFallsThrough(t *testing.T) {
	next := &mockEmbedder{vec: []float32{3}}
	svc, mr := setup(t, next)
	mr.Close()

	vec, err := svc.Embed(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, []float32{3}, vec)
}

func TestEmbedBatch_Delegates(t *testing.T) {
	next := &mockEmbedder{vec: []float32{1}}
	svc, mr := setup(t, next)

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, 1, next.batchCalls)
	assert.Empty(t, mr.Keys())
}

func TestDelegates(t *testing.T) {
	next := &mockEmbedder{vec: []float32{1, 2, 3}}
	svc, _ := setup(t, next)

	assert.Equal(t, 3, svc.Dimensions())
	assert.Equal(t, "test-embed", svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
	assert.True(t, next.closed)
}
