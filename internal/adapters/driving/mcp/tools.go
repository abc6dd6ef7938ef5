package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
	"github.com/custodia-labs/fusionqa/internal/core/services"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer"`
	Language string `json:"language,omitempty" jsonschema:"ISO 639-1 code of the question and answer (default en)"`
	Budget   int    `json:"budget,omitempty" jsonschema:"maximum number of context records (default retrieval.budget)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string                   `json:"answer"`
	Language  string                   `json:"language"`
	Citations []domain.CitationDisplay `json:"citations"`
	Sources   []SourceOutput           `json:"sources"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the question to gather context for"`
	Budget   int    `json:"budget,omitempty" jsonschema:"maximum number of records (default retrieval.budget)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// SourceOutput represents one numbered context record.
type SourceOutput struct {
	Number int    `json:"number"`
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	URI    string `json:"uri,omitempty"`
	// Score is a distance for LOCAL sources and a relevance for WEB sources.
	Score   *float64 `json:"score,omitempty"`
	Preview string   `json:"preview"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from local documents and web results, with numbered citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the fused, numbered context records for a question without generating an answer",
	}, s.handleRetrieve)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	resp, err := s.ports.Ask.Ask(ctx, driving.AskRequest{
		Question: input.Question,
		Language: input.Language,
		Budget:   s.budget(input.Budget),
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    resp.Bundle.Answer,
		Language:  resp.Language,
		Citations: make([]domain.CitationDisplay, len(resp.Bundle.Citations)),
		Sources:   toSourceOutputs(resp.Bundle.Sources),
	}
	for i, c := range resp.Bundle.Citations {
		output.Citations[i] = services.FormatCitation(c)
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, RetrieveOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	records := s.ports.Retrieval.Retrieve(ctx, input.Question, s.budget(input.Budget))
	return nil, RetrieveOutput{
		Sources: toSourceOutputs(records),
		Count:   len(records),
	}, nil
}

// budget resolves a request budget against the configured one.
func (s *Server) budget(requested int) int {
	switch {
	case requested > 0:
		return requested
	case s.ports.Budget > 0:
		return s.ports.Budget
	default:
		return domain.DefaultBudget
	}
}

func toSourceOutputs(records []domain.Record) []SourceOutput {
	out := make([]SourceOutput, len(records))
	for i := range records {
		out[i] = SourceOutput{
			Number:  records[i].Sequence,
			Kind:    records[i].Kind.String(),
			Label:   records[i].Label,
			URI:     records[i].URI,
			Score:   records[i].Score,
			Preview: records[i].Preview(),
		}
	}
	return out
}
