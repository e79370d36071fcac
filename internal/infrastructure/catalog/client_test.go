package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `[
  {
    "productName": "Leche Entera La Serenisima 1 L",
    "link": "https://store.example/leche-entera/p",
    "items": [{
      "images": [{"imageUrl": "https://img.example/leche.jpg"}],
      "sellers": [{"commertialOffer": {"Price": 1200, "ListPrice": 1500, "AvailableQuantity": 10}}]
    }]
  }
]`

func testOptions() ClientOptions {
	return ClientOptions{
		Timeout:       2 * time.Second,
		RetryMax:      2,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  5 * time.Millisecond,
		RatePerSecond: 1000,
		Burst:         100,
	}
}

func newTestStoreClient(baseURL string) *StoreClient {
	return NewStoreClient(Store{Name: "Test", BaseURL: baseURL, SalesChannel: "1"}, testOptions(), zerolog.Nop())
}

func TestStoreClient_Search(t *testing.T) {
	var gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	listings, err := newTestStoreClient(server.URL).Search(context.Background(), "leche entera")
	require.NoError(t, err)
	require.Len(t, listings, 1)

	assert.Equal(t, "Leche Entera La Serenisima 1 L", listings[0].Name)
	assert.Equal(t, 1200.0, listings[0].Price)
	require.NotNil(t, listings[0].ListPrice)
	assert.Equal(t, 1500.0, *listings[0].ListPrice)
	assert.Contains(t, gotQuery, "ft=leche+entera")
	assert.Contains(t, gotQuery, "_to=19")
	assert.Contains(t, gotQuery, "sc=1")
	assert.Equal(t, "CartCompare/1.0", gotUA)
}

func TestStoreClient_AcceptsPartialContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	listings, err := newTestStoreClient(server.URL).Search(context.Background(), "leche")
	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestStoreClient_RetriesServerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"internal error", http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) == 1 {
					w.WriteHeader(tt.status)
					return
				}
				_, _ = w.Write([]byte(sampleResponse))
			}))
			defer server.Close()

			listings, err := newTestStoreClient(server.URL).Search(context.Background(), "leche")
			require.NoError(t, err)
			assert.Len(t, listings, 1)
			assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		})
	}
}

func TestStoreClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestStoreClient(server.URL).Search(context.Background(), "leche")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStoreClient_ExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestStoreClient(server.URL).Search(context.Background(), "leche")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogFailure)
	assert.Contains(t, err.Error(), "502")
}

func TestStoreClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	_, err := newTestStoreClient(server.URL).Search(context.Background(), "leche")
	assert.ErrorIs(t, err, domain.ErrCatalogFailure)
}

func TestStoreClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestStoreClient(server.URL).Search(ctx, "leche")
	assert.Error(t, err)
}

func TestStoreClient_InvalidBaseURL(t *testing.T) {
	_, err := newTestStoreClient("not-a-url").Search(context.Background(), "leche")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base URL")
}

func TestClientOptions_WithDefaults(t *testing.T) {
	opts := ClientOptions{RetryMax: -1, PageSize: 500}.withDefaults()

	assert.Equal(t, 10*time.Second, opts.Timeout)
	assert.Equal(t, 0, opts.RetryMax)
	assert.Equal(t, 20, opts.PageSize)
	assert.Equal(t, 5.0, opts.RatePerSecond)
	assert.Equal(t, 10, opts.Burst)
	assert.Equal(t, "CartCompare/1.0", opts.UserAgent)
}
