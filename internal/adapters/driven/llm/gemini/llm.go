// Package gemini provides an LLM service adapter for the Google Gemini
// generateContent REST API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL including the version segment.
	BaseURL string

	// Model is the model name without the "models/" prefix.
	Model string

	// Timeout is the HTTP client timeout. Callers usually impose a
	// tighter context deadline.
	Timeout time.Duration
}

// LLMService generates text with Gemini.
type LLMService struct {
	api     *httpjson.Client
	baseURL string
	model   string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            float64  `json:"topP,omitempty"`
	TopK            int      `json:"topK,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// NewLLMService creates a Gemini LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w: API key is required", domain.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		api: &httpjson.Client{
			HTTP:    &http.Client{Timeout: cfg.Timeout},
			Headers: map[string]string{"x-goog-api-key": cfg.APIKey},
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   strings.TrimPrefix(cfg.Model, "models/"),
	}, nil
}

// Generate produces a completion. A blocked prompt or a response with no
// text parts returns an empty string, which callers treat as an empty result.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	temperature := opts.Temperature
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     &temperature,
			TopP:            opts.TopP,
			TopK:            opts.TopK,
			MaxOutputTokens: opts.MaxTokens,
			StopSequences:   opts.StopWords,
		},
	}

	var resp generateResponse
	if err := s.api.Post(ctx, s.modelURL(":generateContent"), req, &resp); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", nil
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping fetches the model metadata, which checks the key and model name
// without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.api.Get(ctx, s.modelURL(""), nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

func (s *LLMService) modelURL(method string) string {
	return s.baseURL + "/models/" + url.PathEscape(s.model) + method
}
