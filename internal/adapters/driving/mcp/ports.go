package mcp

import (
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions with citations.
	Ask driving.AskService

	// Retrieval exposes the fused context without synthesis.
	Retrieval driving.RetrievalService

	// Settings backs the settings resource. Optional.
	Settings driving.SettingsService

	// Budget is the configured record budget for requests without one.
	// Zero means domain.DefaultBudget.
	Budget int
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
