package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/lookup/noop"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/fusionqa/internal/adapters/driven/translation"
	"github.com/custodia-labs/fusionqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/fusionqa/internal/config"
	"github.com/custodia-labs/fusionqa/internal/connectors"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/core/services"
	"github.com/custodia-labs/fusionqa/internal/logger"
	"github.com/custodia-labs/fusionqa/internal/normalisers"
	"github.com/custodia-labs/fusionqa/internal/postprocessors"
)

// bootstrap is the composition root. It builds only the providers the
// command needs so that settings work before any provider is reachable.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settings := services.NewSettingsService(store, ai.NewConfigValidator())

	if opts.Need == cli.NeedSettings {
		return &cli.Services{Settings: settings}, nil
	}

	envFiles := []string{".env"}
	if opts.ConfigDir != "" {
		envFiles = append(envFiles, filepath.Join(opts.ConfigDir, ".env"))
	}
	cfg, err := config.Load(store, config.WithEnvFiles(envFiles...))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	res, err := ai.Initialise(ctx, cfg, ai.InitOptions{
		RequireLLM:   opts.Need == cli.NeedAnswer,
		RequireIndex: opts.Need == cli.NeedIngest,
		SkipLLM:      opts.Need == cli.NeedRetrieval || opts.Need == cli.NeedIngest,
	})
	if err != nil {
		return nil, err
	}

	metrics := prometheus.New()
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	addr := opts.MetricsAddr
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	if addr != "" {
		go func() {
			if err := metrics.Serve(metricsCtx, addr); err != nil {
				logger.Warn("Metrics server stopped: %v", err)
			}
		}()
	}

	var promptDir string
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		stopMetrics()
		res.Close()
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	fusion := services.NewFusionEngine(cfg.Retrieval, res.EmbeddingService, res.LocalIndex, res.WebSearch)
	fusion.SetContextLookup(noop.New())
	fusion.SetMetrics(metrics)

	synth := services.NewSynthesizer(res.LLMService, cfg.LLM)
	synth.SetPromptStore(prompts)
	synth.SetMetrics(metrics)

	var translator driven.Translator
	if res.LLMService != nil {
		translator = translation.New(res.LLMService, prompts)
	}

	ask := services.NewAskService(fusion, synth, translator, cfg.Retrieval.Budget)
	ask.SetMetrics(metrics)

	pipeline, err := postprocessors.NewDefaultPipeline(cfg.Ingest)
	if err != nil {
		stopMetrics()
		res.Close()
		return nil, fmt.Errorf("build ingest pipeline: %w", err)
	}
	ingest := services.NewIngestService(
		connectors.NewDefaultReader(),
		normalisers.NewDefaultRegistry(),
		pipeline,
		res.EmbeddingService,
		res.LocalIndex,
		cfg.Ingest.Workers,
	)

	return &cli.Services{
		Ask:       ask,
		Retrieval: fusion,
		Ingest:    ingest,
		Settings:  settings,
		Budget:    cfg.Retrieval.Budget,
		Close: func() {
			stopMetrics()
			res.Close()
		},
	}, nil
}
