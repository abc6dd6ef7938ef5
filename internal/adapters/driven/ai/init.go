package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// InitResult contains the providers built from a configuration.
// Optional providers are nil when unavailable; Warnings explains why.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	LocalIndex       driven.LocalIndex
	WebSearch        driven.WebSearchProvider
	Warnings         []string // Non-fatal issues that disabled a provider.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LocalIndex != nil {
		r.LocalIndex.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// InitOptions selects which providers Initialise builds.
type InitOptions struct {
	// RequireLLM makes a missing or unreachable LLM fatal.
	RequireLLM bool

	// RequireIndex makes a missing embedding service or index fatal.
	// Ingestion needs both; answering degrades without them.
	RequireIndex bool

	// SkipLLM leaves the LLM unset, e.g. for retrieval-only commands.
	SkipLLM bool
}

// Initialise builds every provider in cfg. Optional providers that fail
// are dropped with a warning so the pipeline can degrade gracefully.
func Initialise(ctx context.Context, cfg *domain.Config, opts InitOptions) (*InitResult, error) {
	res := &InitResult{}

	if !opts.SkipLLM {
		llm, err := CreateAndValidateLLMService(ctx, &cfg.LLM)
		switch {
		case err != nil && opts.RequireLLM:
			return nil, err
		case err != nil:
			res.warn("LLM disabled: %v", err)
		case llm == nil && opts.RequireLLM:
			return nil, fmt.Errorf("llm: %w: set an API key for %s. %s",
				domain.ErrNotConfigured, cfg.LLM.Provider, settingsHint)
		default:
			res.LLMService = llm
		}
	}

	embedder, err := CreateAndValidateEmbeddingService(ctx, &cfg.Embedding)
	if err != nil || embedder == nil {
		if opts.RequireIndex {
			res.Close()
			if err == nil {
				err = fmt.Errorf("embedding: %w. %s", domain.ErrNotConfigured, settingsHint)
			}
			return nil, err
		}
		if err != nil {
			res.warn("Local retrieval disabled: %v", err)
		}
	} else {
		res.EmbeddingService = embedder

		index, err := CreateLocalIndex(ctx, cfg.Index, embeddingDimensions(embedder))
		if err != nil {
			if opts.RequireIndex {
				res.Close()
				return nil, fmt.Errorf("local index: %w", err)
			}
			res.warn("Local retrieval disabled: %s index: %v", cfg.Index.Backend, err)
		} else {
			res.LocalIndex = index
		}
	}

	web, err := CreateWebSearch(cfg.WebSearch)
	if err != nil {
		res.warn("Web search disabled: %v", err)
	}
	res.WebSearch = web

	return res, nil
}

func (r *InitResult) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("%s", msg)
	r.Warnings = append(r.Warnings, msg)
}
