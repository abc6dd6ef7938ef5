// Package httpjson is the JSON-over-HTTP plumbing shared by the cloud
// provider adapters. It maps transport and status failures onto the domain
// error taxonomy so services can classify them without knowing the provider.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is quoted.
const maxErrorBody = 512

// Client posts JSON and decodes JSON responses.
type Client struct {
	HTTP    *http.Client
	Headers map[string]string
}

// Post sends body to url and decodes the response into out.
func (c *Client) Post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Get fetches url and decodes the response into out, which may be nil.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}

// StatusError converts a non-2xx response into a classified error.
func StatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		sentinel = domain.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		sentinel = domain.ErrNotConfigured
	default:
		sentinel = domain.ErrProviderUnavailable
	}
	if msg == "" {
		return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode, msg)
}

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrProviderUnavailable)
}
