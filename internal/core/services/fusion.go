package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// Ensure FusionEngine implements the interface.
var _ driving.RetrievalService = (*FusionEngine)(nil)

var tracer = otel.Tracer("github.com/custodia-labs/fusionqa/internal/core/services")

// Provider names used in logs and metrics.
const (
	providerEmbedding  = "embedding"
	providerLocalIndex = "local-index"
	providerWebSearch  = "web-search"
	providerLookup     = "context-lookup"
)

// FusionEngine merges local index hits and web results into one ordered,
// budget-capped list of records.
type FusionEngine struct {
	cfg      domain.RetrievalSettings
	enhancer *QueryEnhancer
	embedder driven.EmbeddingService
	index    driven.LocalIndex
	web      driven.WebSearchProvider
	lookup   driven.ContextLookup
	metrics  driven.Metrics
}

// NewFusionEngine creates a fusion engine.
// The embedder, index and web parameters are optional (can be nil); a missing
// provider contributes no records.
func NewFusionEngine(
	cfg domain.RetrievalSettings,
	embedder driven.EmbeddingService,
	index driven.LocalIndex,
	web driven.WebSearchProvider,
) *FusionEngine {
	if cfg.LocalK <= 0 {
		cfg.LocalK = domain.DefaultLocalK
	}
	if cfg.WebCap <= 0 {
		cfg.WebCap = domain.DefaultWebCap
	}
	if cfg.LocalPriority <= 0 {
		cfg.LocalPriority = domain.DefaultLocalPriority
	}
	if cfg.MinRecords <= 0 {
		cfg.MinRecords = domain.DefaultMinRecords
	}

	return &FusionEngine{
		cfg:      cfg,
		enhancer: NewQueryEnhancer(cfg),
		embedder: embedder,
		index:    index,
		web:      web,
	}
}

// SetContextLookup sets the secondary lookup used when too few records are found.
func (f *FusionEngine) SetContextLookup(lookup driven.ContextLookup) {
	f.lookup = lookup
}

// SetMetrics sets the metrics sink.
func (f *FusionEngine) SetMetrics(m driven.Metrics) {
	f.metrics = m
}

// Retrieve returns at most budget records: up to LocalPriority LOCAL records,
// then WEB records, then the remaining LOCAL records, numbered 1..N.
func (f *FusionEngine) Retrieve(ctx context.Context, question string, budget int) []domain.Record {
	ctx, span := tracer.Start(ctx, "fusion.retrieve")
	defer span.End()
	start := time.Now()

	logger.Section("Source Fusion")
	logger.Debug("Question: %q, budget: %d", question, budget)

	if budget <= 0 {
		logger.Debug("Non-positive budget, returning no records")
		return []domain.Record{}
	}

	query := f.enhancer.Query(question)
	if query.Enhanced != query.Original {
		logger.Debug("Enhanced query: %q", query.Enhanced)
	}
	if f.enhancer.NeedsCurrentInfo(question) {
		logger.Debug("Question asks for current information")
	}

	// Local and web lookups are independent; fusion waits for both.
	var localOut Outcome[[]domain.Record]
	var webOut Outcome[[]domain.Record]

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		localOut = f.queryLocal(ctx, query.Original)
	}()

	go func() {
		defer wg.Done()
		webOut = f.searchWeb(ctx, query.Enhanced)
	}()

	wg.Wait()

	local, _ := settle(localOut, f.metrics)
	web, _ := settle(webOut, f.metrics)
	logger.Debug("Local records: %d, web records: %d", len(local), len(web))

	if len(local)+len(web) < f.cfg.MinRecords {
		logger.Debug("Fewer than %d records, trying secondary lookup", f.cfg.MinRecords)
		extra, _ := settle(f.lookupMore(ctx, query.Enhanced), f.metrics)
		moreLocal, moreWeb := partition(extra)
		local = append(local, moreLocal...)
		web = append(web, moreWeb...)
	}

	records := domain.Number(assemble(local, web, budget, f.cfg.LocalPriority))

	if f.metrics != nil {
		f.metrics.ObserveLatency("retrieve", time.Since(start))
		l, w := partition(records)
		f.metrics.RecordsReturned(string(domain.SourceLocal), len(l))
		f.metrics.RecordsReturned(string(domain.SourceWeb), len(w))
	}
	span.SetAttributes(
		attribute.Int("fusion.budget", budget),
		attribute.Int("fusion.records", len(records)),
	)
	logger.Info("Fused %d records", len(records))

	return records
}

// queryLocal embeds the question and converts index hits into LOCAL records.
// Empty hits are dropped; equal distances keep the index's order.
func (f *FusionEngine) queryLocal(ctx context.Context, question string) Outcome[[]domain.Record] {
	start := time.Now()
	if f.embedder == nil || f.index == nil {
		return skipped[[]domain.Record](providerLocalIndex)
	}

	vec, err := f.embedder.Embed(ctx, question)
	if err != nil {
		return failed[[]domain.Record](providerEmbedding, err, start)
	}

	hits, err := f.index.Query(ctx, vec, f.cfg.LocalK)
	if err != nil {
		return failed[[]domain.Record](providerLocalIndex, err, start)
	}

	type ranked struct {
		record domain.Record
		dist   float64
	}
	kept := make([]ranked, 0, len(hits))
	for i, hit := range hits {
		if strings.TrimSpace(hit.Content) == "" {
			continue
		}
		label := hit.Provenance.Display(i + 1)
		kept = append(kept, ranked{
			record: domain.NewLocalRecord(hit.Content, label, hit.Distance),
			dist:   hit.Distance,
		})
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].dist < kept[j].dist
	})

	records := make([]domain.Record, len(kept))
	for i := range kept {
		records[i] = kept[i].record
	}
	logger.Debug("Local index: %d hits, %d non-empty", len(hits), len(records))

	return succeeded(providerLocalIndex, records, start)
}

// searchWeb queries the web provider and keeps at most WebCap results.
func (f *FusionEngine) searchWeb(ctx context.Context, query string) Outcome[[]domain.Record] {
	start := time.Now()
	if f.web == nil {
		return skipped[[]domain.Record](providerWebSearch)
	}

	results, err := f.web.Search(ctx, query, f.cfg.WebCap)
	if err != nil {
		return failed[[]domain.Record](providerWebSearch, fmt.Errorf("%s: %w", f.web.Name(), err), start)
	}

	if len(results) > f.cfg.WebCap {
		results = results[:f.cfg.WebCap]
	}

	records := make([]domain.Record, 0, len(results))
	for _, r := range results {
		records = append(records, domain.NewWebRecord(r.Content, r.Title, r.URL, r.Score))
	}
	logger.Debug("Web search (%s): %d results", f.web.Name(), len(records))

	return succeeded(providerWebSearch, records, start)
}

// lookupMore runs the secondary lookup and drops records without a valid kind.
func (f *FusionEngine) lookupMore(ctx context.Context, query string) Outcome[[]domain.Record] {
	start := time.Now()
	if f.lookup == nil {
		return skipped[[]domain.Record](providerLookup)
	}

	found, err := f.lookup.Lookup(ctx, query)
	if err != nil {
		return failed[[]domain.Record](providerLookup, fmt.Errorf("%s: %w", f.lookup.Name(), err), start)
	}

	records := make([]domain.Record, 0, len(found))
	for _, r := range found {
		if r.Kind.IsValid() && strings.TrimSpace(r.Content) != "" {
			records = append(records, r)
		}
	}
	return succeeded(providerLookup, records, start)
}

// partition splits records by kind, preserving order within each kind.
func partition(records []domain.Record) (local, web []domain.Record) {
	for _, r := range records {
		switch r.Kind {
		case domain.SourceLocal:
			local = append(local, r)
		case domain.SourceWeb:
			web = append(web, r)
		}
	}
	return local, web
}

// assemble applies the priority policy under the budget.
func assemble(local, web []domain.Record, budget, priority int) []domain.Record {
	out := make([]domain.Record, 0, budget)

	head := min(priority, len(local), budget)
	out = append(out, local[:head]...)

	if remaining := budget - len(out); remaining > 0 {
		out = append(out, web[:min(remaining, len(web))]...)
	}

	if remaining := budget - len(out); remaining > 0 && len(local) > head {
		overflow := local[head:]
		out = append(out, overflow[:min(remaining, len(overflow))]...)
	}

	return out
}
