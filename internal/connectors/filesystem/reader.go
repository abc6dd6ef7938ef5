// Package filesystem reads local documents for ingestion and watches
// directories for new or changed files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// DefaultMaxFileSize caps the bytes read from a single file.
const DefaultMaxFileSize int64 = 50 << 20

// Reader loads files from the local filesystem.
type Reader struct {
	maxSize int64
}

// NewReader creates a reader. A maxSize of zero uses DefaultMaxFileSize.
func NewReader(maxSize int64) *Reader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Reader{maxSize: maxSize}
}

// ReadFile reads a regular file and detects its MIME type.
func (r *Reader) ReadFile(ctx context.Context, path string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = LocalPath(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", domain.ErrInvalidInput, path)
	}
	if info.Size() > r.maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", domain.ErrInvalidInput, path, info.Size(), r.maxSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, r.maxSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &domain.RawDocument{
		URI:      abs,
		MIMEType: DetectMIMEType(path),
		Content:  content,
	}, nil
}

// ListDir returns the regular, non-hidden files under dir, recursively,
// in lexical order. Hidden directories are not descended into.
func (r *Reader) ListDir(ctx context.Context, dir string) ([]string, error) {
	dir = LocalPath(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return walkErr
		}
		if path != dir && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}
