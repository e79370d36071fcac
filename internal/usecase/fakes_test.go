package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/cartcompare/backend/internal/domain"
)

// fakeUnits resolves measures by exact text
type fakeUnits map[string]domain.Measure

func (f fakeUnits) ParseUnit(text string) (domain.Measure, bool) {
	m, ok := f[text]
	return m, ok
}

// panickingUnits simulates a misbehaving unit parser
type panickingUnits struct{}

func (panickingUnits) ParseUnit(string) (domain.Measure, bool) {
	panic("boom")
}

// fakeCatalog returns canned store results per term
type fakeCatalog struct {
	mu      sync.Mutex
	results map[string][]domain.StoreQueryResult
	calls   []string
	regions []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{results: make(map[string][]domain.StoreQueryResult)}
}

func (f *fakeCatalog) add(term, store string, products ...domain.ProductListing) {
	f.results[term] = append(f.results[term], domain.StoreQueryResult{StoreName: store, Products: products})
}

func (f *fakeCatalog) fail(term, store string) {
	f.results[term] = append(f.results[term], domain.StoreQueryResult{StoreName: store, Failed: true, Err: "timeout"})
}

func (f *fakeCatalog) SearchAllStores(ctx context.Context, term, region string) []domain.StoreQueryResult {
	f.mu.Lock()
	f.calls = append(f.calls, term)
	f.regions = append(f.regions, region)
	f.mu.Unlock()
	return f.results[term]
}

// fakeRecorder captures comparison observations
type fakeRecorder struct {
	calls    int
	carts    int
	notFound int
}

func (r *fakeRecorder) ObserveComparison(_ time.Duration, carts, notFound int) {
	r.calls++
	r.carts = carts
	r.notFound = notFound
}

func listing(name string, price float64) domain.ProductListing {
	return domain.ProductListing{Name: name, Price: price, Link: "https://example.com/" + name}
}
