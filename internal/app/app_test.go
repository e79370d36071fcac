package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/cartcompare/backend/config"
	"github.com/cartcompare/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vtexServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func offer(name string, price float64) string {
	return `[{"productName":"` + name + `","link":"https://x/p","items":[{"sellers":[{"commertialOffer":{"Price":` +
		strconv.FormatFloat(price, 'f', -1, 64) + `,"AvailableQuantity":5}}]}]}]`
}

func testConfig(stores ...config.StoreConfig) *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			Timeout:       time.Second,
			RatePerSecond: 100,
			Burst:         10,
			Stores:        stores,
		},
		Cache:    config.CacheConfig{Type: "memory", TTL: time.Minute},
		Matching: config.MatchingConfig{Threshold: 0.35},
	}
}

func TestNew_EndToEnd(t *testing.T) {
	cheap := vtexServer(t, offer("Arroz Largo Fino 1 Kg", 900))
	pricey := vtexServer(t, offer("Arroz Largo Fino Gallo 1 Kg", 1200))

	cfg := testConfig(
		config.StoreConfig{Name: "Cheap", BaseURL: cheap.URL},
		config.StoreConfig{Name: "Pricey", BaseURL: pricey.URL, Regions: []string{"Rosario"}},
	)

	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	result, err := a.Service.CompareProducts(context.Background(), []string{"arroz largo fino"}, "")
	require.NoError(t, err)
	require.Len(t, result.StoreCarts, 2)
	assert.Equal(t, "Cheap", result.StoreCarts[0].StoreName)
	assert.True(t, result.StoreCarts[0].Items[0].IsCheapest)
	require.NotNil(t, result.StoreCarts[0].Items[0].UnitInfo)
	assert.Equal(t, domain.UnitInfo{Quantity: 1, Unit: "kg", PricePerUnit: 900}, *result.StoreCarts[0].Items[0].UnitInfo)

	regional, err := a.Service.CompareProducts(context.Background(), []string{"arroz largo fino"}, "Cordoba")
	require.NoError(t, err)
	require.Len(t, regional.StoreCarts, 1)
	assert.Equal(t, "Cheap", regional.StoreCarts[0].StoreName)

	assert.Len(t, a.Stores.Stores("rosario"), 2)
}

func TestNew_RedisUnavailable(t *testing.T) {
	cfg := testConfig(config.StoreConfig{Name: "A", BaseURL: "http://127.0.0.1:1"})
	cfg.Cache = config.CacheConfig{Type: "redis", RedisURL: "redis://127.0.0.1:1/0"}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, cfg, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}
