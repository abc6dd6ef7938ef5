package driven

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// DocumentReader loads raw documents for ingestion.
type DocumentReader interface {
	// ReadFile reads a local file and detects its MIME type.
	ReadFile(ctx context.Context, path string) (*domain.RawDocument, error)

	// FetchURL downloads a web page.
	FetchURL(ctx context.Context, url string) (*domain.RawDocument, error)

	// ListDir returns regular files under dir, recursively, in lexical order.
	ListDir(ctx context.Context, dir string) ([]string, error)
}
