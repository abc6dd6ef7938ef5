package driving

import (
	"context"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// IngestService loads documents into the local index.
type IngestService interface {
	// IngestFile reads, chunks, embeds and stores a single file.
	IngestFile(ctx context.Context, path string) (domain.IngestReport, error)

	// IngestURL fetches a web page and ingests its text.
	IngestURL(ctx context.Context, url string) (domain.IngestReport, error)

	// IngestDir ingests every supported file under dir. Unsupported files
	// are listed in the report's Skipped field.
	IngestDir(ctx context.Context, dir string) (domain.IngestReport, error)
}
