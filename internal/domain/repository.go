package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient queries every participating store for one search term.
// Failures are reported per store through StoreQueryResult.Failed, never as
// an error.
type CatalogClient interface {
	SearchAllStores(ctx context.Context, term, region string) []StoreQueryResult
}

// UnitParser extracts a normalized quantity from a product name or search term
type UnitParser interface {
	ParseUnit(text string) (Measure, bool)
}

// ComparisonRecorder receives per-comparison observations
type ComparisonRecorder interface {
	ObserveComparison(duration time.Duration, carts, notFound int)
}
