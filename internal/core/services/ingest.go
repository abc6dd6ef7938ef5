package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService reads documents, splits them into chunks, embeds the chunks
// on a worker pool and upserts them into the local index.
type IngestService struct {
	reader     driven.DocumentReader
	normaliser driven.NormaliserRegistry
	pipeline   driven.PostProcessorPipeline
	embedder   driven.EmbeddingService
	index      driven.LocalIndex
	workers    int
}

// NewIngestService creates an ingest service.
// Ingestion requires an embedder and an index; both are checked per call.
func NewIngestService(
	reader driven.DocumentReader,
	normaliser driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.LocalIndex,
	workers int,
) *IngestService {
	if workers <= 0 {
		workers = domain.DefaultIngestWorkers
	}
	return &IngestService{
		reader:     reader,
		normaliser: normaliser,
		pipeline:   pipeline,
		embedder:   embedder,
		index:      index,
		workers:    workers,
	}
}

// IngestFile ingests a single local file.
func (s *IngestService) IngestFile(ctx context.Context, path string) (domain.IngestReport, error) {
	logger.Section("Ingest File")
	logger.Debug("Path: %s", path)

	raw, err := s.reader.ReadFile(ctx, path)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("read %s: %w", path, err)
	}
	return s.ingest(ctx, raw)
}

// IngestURL ingests a web page.
func (s *IngestService) IngestURL(ctx context.Context, url string) (domain.IngestReport, error) {
	logger.Section("Ingest URL")
	logger.Debug("URL: %s", url)

	raw, err := s.reader.FetchURL(ctx, url)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	return s.ingest(ctx, raw)
}

// IngestDir ingests every supported file under dir. Files no normaliser
// handles are skipped; any other failure stops the run.
func (s *IngestService) IngestDir(ctx context.Context, dir string) (domain.IngestReport, error) {
	logger.Section("Ingest Directory")

	paths, err := s.reader.ListDir(ctx, dir)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("list %s: %w", dir, err)
	}

	var report domain.IngestReport
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r, err := s.IngestFile(ctx, p)
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			logger.Debug("Skipping %s: %v", p, err)
			report.Skipped = append(report.Skipped, p)
			continue
		}
		if err != nil {
			return report, err
		}
		report.Add(r)
	}

	logger.Info("Ingested %d documents (%d chunks) from %s", report.Documents, report.Chunks, dir)
	return report, nil
}

func (s *IngestService) ingest(ctx context.Context, raw *domain.RawDocument) (domain.IngestReport, error) {
	if s.embedder == nil || s.index == nil {
		return domain.IngestReport{}, fmt.Errorf("ingest: %w: embedding provider and local index are required",
			domain.ErrNotConfigured)
	}

	doc, err := s.normaliser.Normalise(ctx, raw)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("chunk %s: %w", raw.URI, err)
	}
	logger.Debug("%s: %d chunks", doc.Title, len(chunks))

	if len(chunks) > 0 {
		if err := s.embedChunks(ctx, chunks); err != nil {
			return domain.IngestReport{}, fmt.Errorf("embed %s: %w", raw.URI, err)
		}
	}

	// Chunk IDs derive from the document, but a shorter new version would
	// leave the old tail behind.
	if err := s.index.DeleteDocument(ctx, doc.ID); err != nil {
		return domain.IngestReport{}, fmt.Errorf("replace %s: %w", raw.URI, err)
	}
	if len(chunks) == 0 {
		return domain.IngestReport{Documents: 1}, nil
	}

	if err := s.index.Upsert(ctx, chunks); err != nil {
		return domain.IngestReport{}, fmt.Errorf("upsert %s: %w", raw.URI, err)
	}

	return domain.IngestReport{Documents: 1, Chunks: len(chunks)}, nil
}

// embedChunks fills each chunk's Embedding using a bounded worker pool.
// The first error is returned after all submitted tasks finish.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i := range chunks {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			vec, err := s.embedder.Embed(ctx, chunks[i].Content)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("chunk %d: %w", chunks[i].Position, err)
				}
				mu.Unlock()
				return
			}
			chunks[i].Embedding = vec
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit chunk %d: %w", i, submitErr)
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	return firstErr
}
