package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService runs translate, retrieve, synthesize and translate back.
// Citations and sources are never translated.
type AskService struct {
	retriever  driving.RetrievalService
	synth      driving.SynthesisService
	translator driven.Translator
	metrics    driven.Metrics
	budget     int
}

// NewAskService creates an ask service. The translator is optional.
func NewAskService(
	retriever driving.RetrievalService,
	synth driving.SynthesisService,
	translator driven.Translator,
	budget int,
) *AskService {
	if budget <= 0 {
		budget = domain.DefaultBudget
	}
	return &AskService{
		retriever:  retriever,
		synth:      synth,
		translator: translator,
		budget:     budget,
	}
}

// SetMetrics sets the metrics sink.
func (s *AskService) SetMetrics(m driven.Metrics) {
	s.metrics = m
}

// Ask answers a question in the requested language.
func (s *AskService) Ask(ctx context.Context, req driving.AskRequest) (*driving.AskResponse, error) {
	ctx, span := tracer.Start(ctx, "ask")
	defer span.End()
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	lang := s.resolveLanguage(req.Language)
	span.SetAttributes(attribute.String("ask.language", lang))

	english := question
	if lang != driven.EnglishCode {
		english = s.translator.ToEnglish(ctx, question, lang)
		logger.Debug("Translated question (%s): %q", lang, english)
	}

	budget := req.Budget
	if budget <= 0 {
		budget = s.budget
	}

	records := s.retriever.Retrieve(ctx, english, budget)

	bundle, err := s.synth.Synthesize(ctx, records, english)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if lang != driven.EnglishCode {
		bundle.Answer = s.translator.FromEnglish(ctx, bundle.Answer, lang)
	}

	if s.metrics != nil {
		s.metrics.ObserveLatency("ask", time.Since(start))
	}

	return &driving.AskResponse{
		Bundle:          bundle,
		Language:        lang,
		EnglishQuestion: english,
	}, nil
}

// resolveLanguage returns the language to answer in. Without a translator,
// or for an unsupported code, the pipeline stays in English.
func (s *AskService) resolveLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == driven.EnglishCode {
		return driven.EnglishCode
	}
	if s.translator == nil {
		logger.Warn("No translator configured, answering in English")
		return driven.EnglishCode
	}
	if !s.translator.Supports(code) {
		logger.Warn("Unsupported language %q, answering in English", code)
		return driven.EnglishCode
	}
	return code
}
