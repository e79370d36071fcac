package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Query outcomes reported to a QueryObserver
const (
	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

const defaultMaxConcurrentStores = 8

// Searcher queries a single store's catalog
type Searcher interface {
	Name() string
	Regions() []string
	Search(ctx context.Context, term string) ([]domain.ProductListing, error)
}

// QueryObserver receives one observation per store query
type QueryObserver interface {
	ObserveStoreQuery(store, outcome string, duration time.Duration)
}

// MultiStoreClient fans a search term out to every participating store
type MultiStoreClient struct {
	stores        []Searcher
	maxConcurrent int
	observer      QueryObserver
	logger        zerolog.Logger
}

// NewMultiStoreClient creates a client over stores, queried in the given order
func NewMultiStoreClient(stores []Searcher, maxConcurrent int, logger zerolog.Logger) *MultiStoreClient {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentStores
	}
	return &MultiStoreClient{
		stores:        stores,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// SetObserver attaches an observer for per-store query outcomes
func (m *MultiStoreClient) SetObserver(observer QueryObserver) {
	m.observer = observer
}

// Stores lists the stores participating for region
func (m *MultiStoreClient) Stores(region string) []domain.StoreInfo {
	infos := make([]domain.StoreInfo, 0, len(m.stores))
	for _, s := range m.participating(region) {
		regions := s.Regions()
		if regions == nil {
			regions = []string{}
		}
		infos = append(infos, domain.StoreInfo{Name: s.Name(), Regions: regions})
	}
	return infos
}

// Store looks up a configured store by name, ignoring case
func (m *MultiStoreClient) Store(name string) (domain.StoreInfo, error) {
	for _, s := range m.stores {
		if strings.EqualFold(s.Name(), strings.TrimSpace(name)) {
			regions := s.Regions()
			if regions == nil {
				regions = []string{}
			}
			return domain.StoreInfo{Name: s.Name(), Regions: regions}, nil
		}
	}
	return domain.StoreInfo{}, fmt.Errorf("%w: %s", domain.ErrStoreNotFound, name)
}

// SearchAllStores queries every participating store concurrently. Results
// keep store order; a failing store yields Failed=true instead of an error.
func (m *MultiStoreClient) SearchAllStores(ctx context.Context, term, region string) []domain.StoreQueryResult {
	stores := m.participating(region)
	results := make([]domain.StoreQueryResult, len(stores))

	var g errgroup.Group
	g.SetLimit(m.maxConcurrent)
	for i, store := range stores {
		i, store := i, store
		g.Go(func() error {
			results[i] = m.query(ctx, store, term)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (m *MultiStoreClient) query(ctx context.Context, store Searcher, term string) domain.StoreQueryResult {
	start := time.Now()
	result := domain.StoreQueryResult{StoreName: store.Name()}

	products, err := store.Search(ctx, term)
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeFailed
		result.Failed = true
		result.Err = err.Error()
		ev := m.logger.Warn()
		if errors.Is(err, context.Canceled) {
			ev = m.logger.Debug()
		}
		ev.Err(err).Str("store", store.Name()).Str("term", term).Msg("store query failed")
	case len(products) == 0:
		outcome = OutcomeEmpty
		result.Products = []domain.ProductListing{}
	default:
		result.Products = products
	}

	if m.observer != nil {
		m.observer.ObserveStoreQuery(store.Name(), outcome, time.Since(start))
	}
	return result
}

// participating filters stores by region. Stores without regions always
// participate; an empty region selects every store.
func (m *MultiStoreClient) participating(region string) []Searcher {
	wanted := foldRegion(region)
	if wanted == "" {
		return m.stores
	}

	out := make([]Searcher, 0, len(m.stores))
	for _, s := range m.stores {
		regions := s.Regions()
		if len(regions) == 0 {
			out = append(out, s)
			continue
		}
		for _, r := range regions {
			if foldRegion(r) == wanted {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// foldRegion compares regions without case or accents: "Córdoba" == "cordoba"
func foldRegion(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
