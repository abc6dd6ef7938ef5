package ollamaclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

func TestNew(t *testing.T) {
	c, err := New("http://gpu-box:11434", time.Second)
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = New("http://[::1", time.Second)
	assert.Error(t, err)

	c, err = New("", time.Second)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	notFound := api.StatusError{StatusCode: http.StatusNotFound, ErrorMessage: "model not found"}
	assert.ErrorIs(t, Classify(ctx, notFound), domain.ErrNotConfigured)

	limited := api.StatusError{StatusCode: http.StatusTooManyRequests}
	assert.ErrorIs(t, Classify(ctx, limited), domain.ErrRateLimited)

	broken := api.StatusError{StatusCode: http.StatusInternalServerError}
	assert.ErrorIs(t, Classify(ctx, broken), domain.ErrProviderUnavailable)

	assert.ErrorIs(t, Classify(ctx, errors.New("connection refused")), domain.ErrProviderUnavailable)
}

func TestClassify_ContextWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Classify(ctx, errors.New("read: closed")), context.Canceled)
}
