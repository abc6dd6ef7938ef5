// Package web downloads web pages for ingestion.
package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

const (
	// DefaultTimeout bounds a single download.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps the bytes read from a response.
	DefaultMaxBodySize int64 = 10 << 20

	// DefaultRequestsPerSecond spaces consecutive downloads.
	DefaultRequestsPerSecond = 2.0

	// UserAgent identifies fusionqa to web servers.
	UserAgent = "fusionqa/1.0 (+https://github.com/custodia-labs/fusionqa)"
)

// Config configures a Fetcher. Zero values use the defaults.
type Config struct {
	Timeout           time.Duration
	MaxBodySize       int64
	RequestsPerSecond float64
}

// Fetcher downloads pages over HTTP(S).
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	maxBody int64
}

// NewFetcher creates a fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return &Fetcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		maxBody: cfg.MaxBodySize,
	}
}

// FetchURL downloads rawURL. The MIME type comes from the Content-Type
// header, defaulting to text/html. The URI is the final URL after redirects.
func (f *Fetcher) FetchURL(ctx context.Context, rawURL string) (*domain.RawDocument, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: not an http(s) URL: %q", domain.ErrInvalidInput, rawURL)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,application/pdf;q=0.8,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpjson.StatusError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", domain.ErrInvalidInput, f.maxBody)
	}

	return &domain.RawDocument{
		URI:      resp.Request.URL.String(),
		MIMEType: contentType(resp.Header.Get("Content-Type")),
		Content:  body,
	}, nil
}

func contentType(header string) string {
	if header == "" {
		return "text/html"
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "text/html"
	}
	return mediaType
}
