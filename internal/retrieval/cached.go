package retrieval

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/cache"
	"github.com/ppiankov/factscope/internal/model"
)

// Cached serves repeated queries from a cache. Cache failures are logged
// and the inner provider is called as if the cache were empty.
type Cached struct {
	inner  SearchProvider
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps a provider with a result cache
func NewCached(inner SearchProvider, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{inner: inner, cache: c, ttl: ttl, logger: logger}
}

// Name returns the wrapped provider's name
func (c *Cached) Name() string { return c.inner.Name() }

// Search returns cached evidence when present, otherwise searches and stores
// the result. Errors are never cached.
func (c *Cached) Search(ctx context.Context, req SearchRequest) ([]model.Evidence, error) {
	key := cache.Key(c.inner.Name(), req.Language, strconv.Itoa(req.Limit), req.Query)

	if data, found := c.cache.Get(ctx, key); found {
		var evidence []model.Evidence
		if err := json.Unmarshal(data, &evidence); err == nil {
			return evidence, nil
		}
		c.logger.Warn("dropping unreadable cache entry", zap.String("provider", c.inner.Name()))
		_ = c.cache.Delete(ctx, key)
	}

	evidence, err := c.inner.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(evidence)
	if err == nil {
		err = c.cache.Set(ctx, key, data, c.ttl)
	}
	if err != nil {
		c.logger.Warn("cache write failed", zap.String("provider", c.inner.Name()), zap.Error(err))
	}
	return evidence, nil
}
