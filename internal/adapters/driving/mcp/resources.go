package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for fusionqa resources.
	uriScheme = "fusionqa://"
)

// settingsInfo is the public view of the configuration. API keys are
// reduced to a configured flag.
type settingsInfo struct {
	LLMProvider       string   `json:"llm_provider"`
	LLMModel          string   `json:"llm_model"`
	LLMConfigured     bool     `json:"llm_configured"`
	EmbeddingProvider string   `json:"embedding_provider"`
	EmbeddingModel    string   `json:"embedding_model"`
	IndexBackend      string   `json:"index_backend"`
	WebSearch         bool     `json:"web_search_enabled"`
	Budget            int      `json:"budget"`
	LocalK            int      `json:"local_k"`
	WebCap            int      `json:"web_cap"`
	DomainKeywords    []string `json:"domain_keywords"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Active providers and retrieval policy (no secrets)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleSettingsResource returns the active configuration.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return jsonResult(req.Params.URI, "{}"), nil
	}

	cfg, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	data, err := json.MarshalIndent(publicSettings(cfg), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling settings: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func publicSettings(cfg *domain.Config) settingsInfo {
	return settingsInfo{
		LLMProvider:       cfg.LLM.Provider.String(),
		LLMModel:          cfg.LLM.Model,
		LLMConfigured:     cfg.LLM.IsConfigured(),
		EmbeddingProvider: cfg.Embedding.Provider.String(),
		EmbeddingModel:    cfg.Embedding.Model,
		IndexBackend:      string(cfg.Index.Backend),
		WebSearch:         cfg.WebSearch.IsConfigured(),
		Budget:            cfg.Retrieval.Budget,
		LocalK:            cfg.Retrieval.LocalK,
		WebCap:            cfg.Retrieval.WebCap,
		DomainKeywords:    cfg.Retrieval.DomainKeywords,
	}
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}
