// Package ollamaclient builds ollama API clients and maps their errors onto
// domain errors. It is shared by the ollama LLM and embedding adapters.
package ollamaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// New creates a client for baseURL. An empty baseURL resolves OLLAMA_HOST
// the same way the ollama CLI does.
func New(baseURL string, timeout time.Duration) (*api.Client, error) {
	base := envconfig.Host()
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("ollama: invalid base URL %q: %w", baseURL, err)
		}
		base = u
	}
	return api.NewClient(base, &http.Client{Timeout: timeout}), nil
}

// Classify maps ollama client errors onto domain errors. A missing model
// is reported as not configured so callers can suggest `ollama pull`.
func Classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var status api.StatusError
	if errors.As(err, &status) {
		switch status.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrNotConfigured, status.ErrorMessage)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, status.ErrorMessage)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
}
