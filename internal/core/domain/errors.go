package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent pipeline failures.
// Retrieval-side errors are absorbed by the fusion engine; synthesis-side
// errors are returned to the caller unchanged.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured indicates an optional provider has not been set up.
	ErrNotConfigured = errors.New("not configured")

	// ErrProviderUnavailable indicates an embedding, index, search or LLM
	// provider is unreachable or misconfigured.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrEmptyResult indicates the LLM returned no text.
	ErrEmptyResult = errors.New("empty result")

	// ErrMalformedResponse indicates a provider answered with an unexpected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTimeout indicates an operation exceeded its time bound.
	ErrTimeout = errors.New("timeout")

	// ErrGeneration indicates answer generation failed.
	ErrGeneration = errors.New("generation failed")

	// ErrUnsupportedFormat indicates no normaliser handles a document type.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrRateLimited indicates a provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// TimeoutError reports an operation abandoned at its time bound.
type TimeoutError struct {
	// Op names the operation, e.g. "generate".
	Op string

	// Elapsed is how long the operation ran before being abandoned.
	Elapsed time.Duration

	// Limit is the configured bound.
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s (limit %s)",
		e.Op, e.Elapsed.Round(time.Millisecond), e.Limit)
}

// Is matches ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ProviderError wraps a failure from a single provider call.
type ProviderError struct {
	// Provider is the provider name, e.g. "tavily" or "local-index".
	Provider string

	// Err is the underlying failure.
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Status classifies the error for logging and metrics. The kind is
// derived from Err rather than stored.
func (e *ProviderError) Status() string {
	switch {
	case errors.Is(e.Err, ErrTimeout):
		return "timeout"
	case errors.Is(e.Err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(e.Err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(e.Err, ErrRateLimited):
		return "rate_limited"
	default:
		return "unavailable"
	}
}
