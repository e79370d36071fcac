package app

import (
	"context"
	"fmt"
	"io"

	"github.com/cartcompare/backend/config"
	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/infrastructure/cache"
	"github.com/cartcompare/backend/internal/infrastructure/catalog"
	"github.com/cartcompare/backend/internal/infrastructure/metrics"
	"github.com/cartcompare/backend/internal/infrastructure/units"
	"github.com/cartcompare/backend/internal/usecase"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "cartcompare:"

// App is the wired comparison stack shared by the server and the CLI
type App struct {
	Service *usecase.ComparisonService
	Stores  *catalog.MultiStoreClient
	Metrics *metrics.Registry

	closers []io.Closer
}

// New builds the comparison stack from cfg
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	registry := metrics.NewRegistry()

	opts := catalog.ClientOptions{
		Timeout:       cfg.Catalog.Timeout,
		RetryMax:      cfg.Catalog.RetryMax,
		RatePerSecond: cfg.Catalog.RatePerSecond,
		Burst:         cfg.Catalog.Burst,
		PageSize:      cfg.Catalog.PageSize,
		UserAgent:     cfg.Catalog.UserAgent,
	}
	searchers := make([]catalog.Searcher, 0, len(cfg.Catalog.Stores))
	for _, s := range cfg.Catalog.Stores {
		searchers = append(searchers, catalog.NewStoreClient(catalog.Store{
			Name:         s.Name,
			BaseURL:      s.BaseURL,
			Regions:      s.Regions,
			SalesChannel: s.SalesChannel,
		}, opts, logger))
	}

	multi := catalog.NewMultiStoreClient(searchers, cfg.Catalog.MaxConcurrentStores, logger)
	multi.SetObserver(registry)

	app := &App{Stores: multi, Metrics: registry}

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store)

	var client domain.CatalogClient = catalog.NewCachedClient(multi, store, cfg.Cache.TTL, logger)

	app.Service = usecase.NewComparisonService(client, units.NewParser(), usecase.ComparisonConfig{
		MatchThreshold:     cfg.Matching.Threshold,
		MaxAlternatives:    cfg.Matching.MaxAlternatives,
		CheapestTolerance:  cfg.Matching.CheapestTolerance,
		MaxConcurrentTerms: cfg.Matching.MaxConcurrentTerms,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}, logger)
	app.Service.SetRecorder(registry)

	logger.Info().
		Int("stores", len(searchers)).
		Str("cache", cfg.Cache.Type).
		Float64("threshold", cfg.Matching.Threshold).
		Bool("debug_matching", cfg.Matching.EnableDebugLogging).
		Msg("comparison stack ready")

	return app, nil
}

// Close releases the cache backend
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type closableCache interface {
	domain.CacheRepository
	io.Closer
}

func newCache(ctx context.Context, cfg config.CacheConfig) (closableCache, error) {
	switch cfg.Type {
	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL, cacheKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}
