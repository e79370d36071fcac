package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/rs/zerolog"
)

const defaultCacheTTL = 30 * time.Minute

// CachedClient caches complete catalog answers per (term, region).
// Answers with a failed store are never cached.
type CachedClient struct {
	next   domain.CatalogClient
	cache  domain.CacheRepository
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedClient wraps next with cache
func NewCachedClient(next domain.CatalogClient, cache domain.CacheRepository, ttl time.Duration, logger zerolog.Logger) *CachedClient {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedClient{next: next, cache: cache, ttl: ttl, logger: logger}
}

// SearchAllStores serves from cache when possible, otherwise queries next
func (c *CachedClient) SearchAllStores(ctx context.Context, term, region string) []domain.StoreQueryResult {
	key := cacheKey(term, region)

	if cached, err := c.cache.Get(ctx, key); err == nil {
		var results []domain.StoreQueryResult
		if err := json.Unmarshal(cached, &results); err == nil {
			return results
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	results := c.next.SearchAllStores(ctx, term, region)
	if len(results) == 0 {
		return results
	}
	for _, r := range results {
		if r.Failed {
			return results
		}
	}

	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Warn().Err(err).Msg("cache encode failed")
		return results
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	return results
}

// cacheKey builds "catalog:{term}:{region}" from lowercased, trimmed parts
func cacheKey(term, region string) string {
	return fmt.Sprintf("catalog:%s:%s",
		strings.ToLower(strings.TrimSpace(term)),
		foldRegion(region))
}
