package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrentTerms = 8

// ComparisonConfig holds configuration for the comparison service
type ComparisonConfig struct {
	MatchThreshold     float64
	MaxAlternatives    int
	CheapestTolerance  float64
	MaxConcurrentTerms int
	EnableDebugLogging bool
}

// ComparisonService turns per-store catalog results into ranked store carts
type ComparisonService struct {
	catalog            domain.CatalogClient
	matchingService    *MatchingService
	tolerance          float64
	maxConcurrentTerms int
	recorder           domain.ComparisonRecorder
	logger             zerolog.Logger
	now                func() time.Time
}

// NewComparisonService creates a new comparison service with dependencies
func NewComparisonService(
	catalog domain.CatalogClient,
	units domain.UnitParser,
	config ComparisonConfig,
	logger zerolog.Logger,
) *ComparisonService {
	tolerance := config.CheapestTolerance
	if tolerance <= 0 {
		tolerance = defaultCheapestTolerance
	}

	maxConcurrent := config.MaxConcurrentTerms
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentTerms
	}

	return &ComparisonService{
		catalog: catalog,
		matchingService: NewMatchingService(units, MatchConfig{
			Threshold:          config.MatchThreshold,
			MaxAlternatives:    config.MaxAlternatives,
			EnableDebugLogging: config.EnableDebugLogging,
		}, logger),
		tolerance:          tolerance,
		maxConcurrentTerms: maxConcurrent,
		logger:             logger,
		now:                time.Now,
	}
}

// SetRecorder attaches a recorder that observes every comparison
func (s *ComparisonService) SetRecorder(recorder domain.ComparisonRecorder) {
	s.recorder = recorder
}

// CompareProducts prices a shopping list across every participating store.
// Flow: query catalogs per term -> match per store -> aggregate -> build carts -> rank.
// Store failures and empty results are not errors; the only error is an
// empty shopping list.
func (s *ComparisonService) CompareProducts(
	ctx context.Context,
	searchTerms []string,
	region string,
) (*domain.ShoppingPlanResult, error) {
	start := time.Now()

	terms := prepareTerms(searchTerms)
	if len(terms) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	responses := s.fetchAll(ctx, terms, region)

	matches := make(storeMatches)
	storeOrder := make([]string, 0)
	for i, term := range terms {
		for _, res := range responses[i] {
			if _, seen := matches[res.StoreName]; !seen {
				matches[res.StoreName] = make(map[string]*domain.TermMatch)
				storeOrder = append(storeOrder, res.StoreName)
			}

			if res.Failed {
				s.logger.Debug().Str("store", res.StoreName).Str("term", term).Str("error", res.Err).Msg("store query failed")
				continue
			}

			if match, ok := s.matchingService.Match(term, res.Products); ok {
				matches[res.StoreName][term] = match
			}
		}
	}

	agg := aggregateMatches(terms, storeOrder, matches)
	carts := buildCarts(terms, storeOrder, matches, agg, s.tolerance)
	rankCarts(carts)

	result := &domain.ShoppingPlanResult{
		StoreCarts: carts,
		NotFound:   agg.notFound,
		SearchedAt: s.now().UTC(),
	}

	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveComparison(elapsed, len(carts), len(agg.notFound))
	}

	s.logger.Info().
		Int("terms", len(terms)).
		Int("stores", len(storeOrder)).
		Int("carts", len(carts)).
		Int("not_found", len(agg.notFound)).
		Dur("dur", elapsed).
		Msg("comparison done")

	return result, nil
}

// fetchAll queries the catalog for every term concurrently. Each goroutine
// writes only its own slot; a cancelled context leaves remaining slots empty.
func (s *ComparisonService) fetchAll(ctx context.Context, terms []string, region string) [][]domain.StoreQueryResult {
	responses := make([][]domain.StoreQueryResult, len(terms))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrentTerms)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			responses[i] = s.catalog.SearchAllStores(ctx, term, region)
			return nil
		})
	}
	_ = g.Wait()

	return responses
}

// prepareTerms trims terms, drops blanks and keeps the first of any duplicates
func prepareTerms(searchTerms []string) []string {
	terms := make([]string, 0, len(searchTerms))
	seen := make(map[string]bool, len(searchTerms))
	for _, t := range searchTerms {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	return terms
}
