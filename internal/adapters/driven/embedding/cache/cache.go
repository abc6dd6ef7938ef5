// Package cache provides a redis-backed decorator for embedding services.
// Embeddings are deterministic for a fixed model, so query vectors can be
// reused across calls. Retrieved records are never cached.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/vecutil"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultTTL       = 24 * time.Hour
	DefaultKeyPrefix = "fusionqa:embed:"
)

// Config holds cache settings.
type Config struct {
	TTL       time.Duration
	KeyPrefix string
}

// EmbeddingService caches Embed results in redis. EmbedBatch is used for
// ingestion and always goes to the wrapped service.
type EmbeddingService struct {
	next   driven.EmbeddingService
	redis  *goredis.Client
	ttl    time.Duration
	prefix string
}

// New wraps next with a redis cache.
func New(next driven.EmbeddingService, client *goredis.Client, cfg Config) *EmbeddingService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &EmbeddingService{
		next:   next,
		redis:  client,
		ttl:    cfg.TTL,
		prefix: cfg.KeyPrefix,
	}
}

// NewFromAddr connects to the redis server at addr and wraps next.
func NewFromAddr(next driven.EmbeddingService, addr string, cfg Config) *EmbeddingService {
	return New(next, goredis.NewClient(&goredis.Options{Addr: addr}), cfg)
}

func (s *EmbeddingService) key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return s.prefix + s.next.ModelName() + ":" + hex.EncodeToString(hash[:])
}

// Embed returns the cached vector for text or computes and stores it.
// Redis failures fall through to the wrapped service.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := s.key(text)

	data, err := s.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if vec, decErr := vecutil.Decode(data); decErr == nil && len(vec) > 0 {
			logger.Debug("embedding cache hit: %s", key)
			return vec, nil
		}
		_ = s.redis.Del(ctx, key).Err()
	case errors.Is(err, goredis.Nil):
		logger.Debug("embedding cache miss: %s", key)
	default:
		logger.Warn("embedding cache unavailable: %v", err)
	}

	vec, err := s.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, key, vecutil.Encode(vec), s.ttl).Err(); err != nil {
		logger.Warn("embedding cache write failed: %v", err)
	}
	return vec, nil
}

// EmbedBatch delegates to the wrapped service.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions delegates to the wrapped service.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName delegates to the wrapped service.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping checks the wrapped service. The cache is optional and is not pinged.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the redis client and the wrapped service.
func (s *EmbeddingService) Close() error {
	return errors.Join(s.redis.Close(), s.next.Close())
}
