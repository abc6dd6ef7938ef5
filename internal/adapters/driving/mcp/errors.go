// Package mcp provides an MCP (Model Context Protocol) server adapter for fusionqa.
// It lets AI assistants ask cited questions and inspect fused context.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
