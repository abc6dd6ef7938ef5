// Package tavily provides a web search adapter for the Tavily search API.
package tavily

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.WebSearchProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.tavily.com"
	DefaultSearchDepth = "advanced"
	DefaultTimeout     = 20 * time.Second
	DefaultRPS         = 1.0
)

// responseSchema is the minimal shape fusion depends on. Unknown fields are
// allowed so API additions do not break search.
const responseSchema = `{
  "type": "object",
  "required": ["results"],
  "properties": {
    "results": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["content"],
        "properties": {
          "title":   {"type": ["string", "null"]},
          "url":     {"type": ["string", "null"]},
          "content": {"type": "string"},
          "score":   {"type": ["number", "null"]}
        }
      }
    }
  }
}`

// Config holds configuration for the Tavily provider.
type Config struct {
	APIKey            string
	BaseURL           string
	SearchDepth       string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Provider searches the web with Tavily.
type Provider struct {
	api     *httpjson.Client
	baseURL string
	depth   string
	limiter *rate.Limiter
	schema  *gojsonschema.Schema
}

type searchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []struct {
		Title   string   `json:"title"`
		URL     string   `json:"url"`
		Content string   `json:"content"`
		Score   *float64 `json:"score"`
	} `json:"results"`
}

// New creates a Tavily provider. A key that fails
// domain.WebSearchSettings.IsConfigured returns ErrNotConfigured.
func New(cfg Config) (*Provider, error) {
	settings := domain.WebSearchSettings{APIKey: cfg.APIKey}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("tavily: %w: API key missing or invalid", domain.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SearchDepth == "" {
		cfg.SearchDepth = DefaultSearchDepth
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRPS
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		return nil, fmt.Errorf("tavily: compile response schema: %w", err)
	}

	return &Provider{
		api: &httpjson.Client{
			HTTP:    &http.Client{Timeout: cfg.Timeout},
			Headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		depth:   cfg.SearchDepth,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		schema:  schema,
	}, nil
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "tavily"
}

// Search returns at most max results in Tavily's ranking order.
func (p *Provider) Search(ctx context.Context, query string, max int) ([]driven.WebResult, error) {
	if max <= 0 {
		return []driven.WebResult{}, nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tavily: rate limit wait: %w", err)
	}

	req := searchRequest{Query: query, MaxResults: max, SearchDepth: p.depth}

	var raw json.RawMessage
	if err := p.api.Post(ctx, p.baseURL+"/search", req, &raw); err != nil {
		return nil, fmt.Errorf("tavily: %w", err)
	}
	if err := p.validate(raw); err != nil {
		return nil, fmt.Errorf("tavily: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("tavily: %w: %w", domain.ErrMalformedResponse, err)
	}

	results := make([]driven.WebResult, 0, min(len(resp.Results), max))
	for _, r := range resp.Results {
		if len(results) == max {
			break
		}
		results = append(results, driven.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return results, nil
}

func (p *Provider) validate(raw json.RawMessage) error {
	result, err := p.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", domain.ErrMalformedResponse, strings.Join(errs, "; "))
	}
	return nil
}
