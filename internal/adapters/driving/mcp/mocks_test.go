package mcp

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	resp    *driving.AskResponse
	err     error
	lastReq driving.AskRequest
}

func (m *mockAskService) Ask(_ context.Context, req driving.AskRequest) (*driving.AskResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	records    []domain.Record
	lastBudget int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, budget int) []domain.Record {
	m.lastBudget = budget
	return m.records
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	cfg *domain.Config
	err error
}

func (m *mockSettingsService) Get() (*domain.Config, error) { return m.cfg, m.err }
func (m *mockSettingsService) Set(_, _ string) error        { return m.err }
func (m *mockSettingsService) Keys() []string               { return nil }
func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}
func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}
func (m *mockSettingsService) SetWebSearchKey(_ string) error { return m.err }
func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.err }
func (m *mockSettingsService) ValidateLLMConfig() error       { return m.err }

func validPorts() *Ports {
	return &Ports{
		Ask:       &mockAskService{},
		Retrieval: &mockRetrievalService{},
	}
}
