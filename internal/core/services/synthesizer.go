package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// Ensure Synthesizer implements the interface.
var _ driving.SynthesisService = (*Synthesizer)(nil)

// NoContextMarker replaces the context block when no records were retrieved.
const NoContextMarker = "No relevant context available."

// Synthesizer builds a source-annotated prompt, calls the LLM under a time
// bound and attaches one citation per record.
type Synthesizer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	metrics driven.Metrics
	opts    driven.GenerateOptions
	timeout time.Duration
}

// NewSynthesizer creates a synthesizer using generation settings from cfg.
// Zero settings fall back to the standard defaults.
func NewSynthesizer(llm driven.LLMService, cfg domain.LLMSettings) *Synthesizer {
	opts := driven.GenerateOptions{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.SamplingTemperature(),
		TopP:        cfg.TopP,
		TopK:        cfg.TopK,
	}.WithDefaults()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultLLMTimeout
	}

	return &Synthesizer{
		llm:     llm,
		opts:    opts,
		timeout: timeout,
	}
}

// SetPromptStore sets the store used to load the answer template.
func (s *Synthesizer) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetMetrics sets the metrics sink.
func (s *Synthesizer) SetMetrics(m driven.Metrics) {
	s.metrics = m
}

// Timeout returns the generation time bound.
func (s *Synthesizer) Timeout() time.Duration {
	return s.timeout
}

// Synthesize generates an answer for question from records.
func (s *Synthesizer) Synthesize(
	ctx context.Context, records []domain.Record, question string,
) (*domain.AnswerBundle, error) {
	ctx, span := tracer.Start(ctx, "synthesizer.synthesize")
	defer span.End()

	logger.Section("Answer Synthesis")
	logger.Debug("Records: %d, timeout: %s", len(records), s.timeout)

	if s.llm == nil {
		return nil, fmt.Errorf("%w: no LLM configured", domain.ErrProviderUnavailable)
	}

	prompt := s.buildPrompt(records, question)
	logger.Debug("Prompt length: %d characters", len(prompt))

	answer, err := s.generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	bundle := &domain.AnswerBundle{
		Answer:    answer,
		Citations: Citations(records),
		Sources:   records,
	}
	span.SetAttributes(attribute.Int("synthesis.citations", len(bundle.Citations)))

	return bundle, nil
}

// BuildContext renders records as "[Source n] (label): content" blocks.
func BuildContext(records []domain.Record) string {
	if len(records) == 0 {
		return NoContextMarker
	}

	blocks := make([]string, len(records))
	for i, r := range records {
		blocks[i] = fmt.Sprintf("[Source %d] (%s): %s", r.Sequence, r.Label, r.Content)
	}
	return strings.Join(blocks, "\n\n")
}

func (s *Synthesizer) buildPrompt(records []domain.Record, question string) string {
	tpl := s.loadTemplate()
	return strings.NewReplacer(
		"{context}", BuildContext(records),
		"{question}", question,
	).Replace(tpl)
}

func (s *Synthesizer) loadTemplate() string {
	if s.prompts != nil {
		tpl, err := s.prompts.Load(driven.PromptSynthesis)
		if err == nil && strings.TrimSpace(tpl) != "" {
			return tpl
		}
		if err != nil {
			logger.Warn("Loading synthesis prompt failed, using default: %v", err)
		}
	}
	return driven.DefaultPrompts()[driven.PromptSynthesis]
}

type generation struct {
	text string
	err  error
}

// generate runs the LLM call and abandons it at the timeout even if the
// provider ignores cancellation.
func (s *Synthesizer) generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan generation, 1)
	go func() {
		text, err := s.llm.Generate(tctx, prompt, s.opts)
		done <- generation{text: text, err: err}
	}()

	var res generation
	select {
	case res = <-done:
	case <-tctx.Done():
		res = generation{err: tctx.Err()}
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveLatency("generate", elapsed)
	}

	if res.err != nil {
		if errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
			s.outcome("timeout")
			return "", &domain.TimeoutError{Op: "generate", Elapsed: elapsed, Limit: s.timeout}
		}
		s.outcome("unavailable")
		if errors.Is(res.err, context.Canceled) || errors.Is(res.err, domain.ErrProviderUnavailable) {
			return "", fmt.Errorf("generate answer: %w", res.err)
		}
		return "", fmt.Errorf("generate answer: %w: %w", domain.ErrProviderUnavailable, res.err)
	}

	text := strings.TrimSpace(res.text)
	if text == "" {
		s.outcome("empty")
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrEmptyResult)
	}

	s.outcome("ok")
	logger.Debug("Generated %d characters in %s", len(text), elapsed)
	return text, nil
}

func (s *Synthesizer) outcome(status string) {
	if s.metrics != nil {
		s.metrics.ProviderOutcome("llm", status)
	}
}
