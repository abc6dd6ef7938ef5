package normalisers

import (
	"context"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/normalisers/html"
	"github.com/custodia-labs/fusionqa/internal/normalisers/markdown"
	"github.com/custodia-labs/fusionqa/internal/normalisers/pdf"
	"github.com/custodia-labs/fusionqa/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the highest-priority normaliser
// that supports their MIME type. Registration order breaks priority ties.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with the PDF, HTML, markdown and
// plain text normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults adds the built-in normalisers to a registry.
func RegisterDefaults(r driven.NormaliserRegistry) {
	r.Register(pdf.New())
	r.Register(html.New())
	r.Register(markdown.New())
	r.Register(plaintext.New())
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise transforms raw with the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.lookup(raw.MIMEType)
	if n == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, raw.MIMEType)
	}
	return n.Normalise(ctx, raw)
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var types []string
	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

func (r *Registry) lookup(mimeType string) driven.Normaliser {
	mediaType := baseMediaType(mimeType)
	if mediaType == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if t == mediaType {
				return n
			}
		}
	}
	return nil
}

// baseMediaType strips parameters such as "; charset=utf-8".
func baseMediaType(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType, _, _ = strings.Cut(mimeType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
