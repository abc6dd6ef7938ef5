package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

const testKey = "tvly-test-0123456789"

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := New(Config{APIKey: testKey, BaseURL: server.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)
	return p
}

func TestNew_RejectsInvalidKeys(t *testing.T) {
	for _, key := range []string{"", "dummy_key", "short"} {
		_, err := New(Config{APIKey: key})
		assert.ErrorIs(t, err, domain.ErrNotConfigured, key)
	}
}

func TestProvider_Name(t *testing.T) {
	p, err := New(Config{APIKey: testKey})
	require.NoError(t, err)
	assert.Equal(t, "tavily", p.Name())
}

func TestProvider_Search(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "women's health iron", req.Query)
		assert.Equal(t, 3, req.MaxResults)
		assert.Equal(t, DefaultSearchDepth, req.SearchDepth)

		_, _ = w.Write([]byte(`{"query":"x","results":[
			{"title":"A","url":"https://a.example","content":"alpha","score":0.9},
			{"title":null,"url":null,"content":"beta"},
			{"title":"C","url":"https://c.example","content":"gamma"},
			{"title":"D","url":"https://d.example","content":"delta"}
		]}`))
	})

	results, err := p.Search(context.Background(), "women's health iron", 3)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].Title)
	assert.Equal(t, "https://a.example", results[0].URL)
	require.NotNil(t, results[0].Score)
	assert.InDelta(t, 0.9, *results[0].Score, 1e-9)
	assert.Empty(t, results[1].Title)
	assert.Empty(t, results[1].URL)
	assert.Nil(t, results[1].Score)
	assert.Equal(t, "gamma", results[2].Content)
}

func TestProvider_Search_ZeroMax(t *testing.T) {
	p := newTestProvider(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	results, err := p.Search(context.Background(), "q", 0)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProvider_Search_SchemaViolation(t *testing.T) {
	tests := map[string]string{
		"missing results":  `{"query":"x"}`,
		"results not list": `{"results":"nope"}`,
		"missing content":  `{"results":[{"title":"A"}]}`,
		"wrong types":      `{"results":[{"content":"a","score":"high"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := p.Search(context.Background(), "q", 3)

			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestProvider_Search_NotJSON(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := p.Search(context.Background(), "q", 3)

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestProvider_Search_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrNotConfigured},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusBadGateway, domain.ErrProviderUnavailable},
	}
	for _, tt := range tests {
		p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		})

		_, err := p.Search(context.Background(), "q", 3)

		assert.ErrorIs(t, err, tt.want, http.StatusText(tt.status))
	}
}

func TestProvider_Search_RateLimitRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	p, err := New(Config{APIKey: testKey, BaseURL: server.URL, RequestsPerSecond: 0.001})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "first", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = p.Search(ctx, "second", 1)

	assert.Error(t, err)
}
