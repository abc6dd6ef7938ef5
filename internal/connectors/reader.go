package connectors

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/connectors/filesystem"
	"github.com/custodia-labs/fusionqa/internal/connectors/web"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.DocumentReader = (*Reader)(nil)

// Reader loads documents from local files and web pages.
type Reader struct {
	files *filesystem.Reader
	web   *web.Fetcher
}

// NewReader creates a reader from its two sources.
func NewReader(files *filesystem.Reader, fetcher *web.Fetcher) *Reader {
	return &Reader{files: files, web: fetcher}
}

// NewDefaultReader creates a reader with default limits.
func NewDefaultReader() *Reader {
	return NewReader(filesystem.NewReader(0), web.NewFetcher(web.Config{}))
}

// ReadFile reads a local file.
func (r *Reader) ReadFile(ctx context.Context, path string) (*domain.RawDocument, error) {
	return r.files.ReadFile(ctx, path)
}

// FetchURL downloads a web page.
func (r *Reader) FetchURL(ctx context.Context, url string) (*domain.RawDocument, error) {
	return r.web.FetchURL(ctx, url)
}

// ListDir lists the files under dir.
func (r *Reader) ListDir(ctx context.Context, dir string) ([]string, error) {
	return r.files.ListDir(ctx, dir)
}
