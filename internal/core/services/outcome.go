package services

import (
	"errors"
	"time"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// Outcome is the explicit result of one provider call: either a value or a
// provider error, never both.
type Outcome[T any] struct {
	Provider string
	Value    T
	Err      *domain.ProviderError
	Elapsed  time.Duration
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

func succeeded[T any](provider string, v T, start time.Time) Outcome[T] {
	return Outcome[T]{Provider: provider, Value: v, Elapsed: time.Since(start)}
}

func failed[T any](provider string, err error, start time.Time) Outcome[T] {
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		pe = &domain.ProviderError{Provider: provider, Err: err}
	}
	return Outcome[T]{Provider: provider, Err: pe, Elapsed: time.Since(start)}
}

func skipped[T any](provider string) Outcome[T] {
	return Outcome[T]{
		Provider: provider,
		Err:      &domain.ProviderError{Provider: provider, Err: domain.ErrNotConfigured},
	}
}

// settle is the retrieval fallback policy: a failed call contributes the zero
// value, is logged and counted, and never reaches the caller. The boolean
// reports whether the value came from a successful call.
func settle[T any](o Outcome[T], m driven.Metrics) (T, bool) {
	if o.OK() {
		if m != nil {
			m.ProviderOutcome(o.Provider, "ok")
		}
		return o.Value, true
	}

	status := o.Err.Status()
	if m != nil {
		m.ProviderOutcome(o.Provider, status)
	}
	if status == "not_configured" {
		logger.Debug("%s not configured, skipping", o.Provider)
	} else {
		logger.Warn("%s failed after %s, continuing without it: %v", o.Provider, o.Elapsed, o.Err.Err)
	}

	var zero T
	return zero, false
}
