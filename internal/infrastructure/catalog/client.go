package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	searchPath      = "/api/catalog_system/pub/products/search"
	maxResponseBody = 5 << 20 // 5 MiB
)

// Store describes one supermarket catalog
type Store struct {
	Name         string
	BaseURL      string
	Regions      []string
	SalesChannel string
}

// ClientOptions tunes the HTTP behaviour shared by every store client
type ClientOptions struct {
	Timeout       time.Duration
	RetryMax      int
	RetryWaitMin  time.Duration
	RetryWaitMax  time.Duration
	RatePerSecond float64
	Burst         int
	PageSize      int
	UserAgent     string
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.RetryMax < 0 {
		o.RetryMax = 0
	}
	if o.RetryWaitMin <= 0 {
		o.RetryWaitMin = 200 * time.Millisecond
	}
	if o.RetryWaitMax <= 0 {
		o.RetryWaitMax = 2 * time.Second
	}
	if o.RatePerSecond <= 0 {
		o.RatePerSecond = 5
	}
	if o.Burst <= 0 {
		o.Burst = 10
	}
	if o.PageSize <= 0 || o.PageSize > 50 {
		o.PageSize = 20
	}
	if o.UserAgent == "" {
		o.UserAgent = "CartCompare/1.0"
	}
	return o
}

// StoreClient handles communication with one store's VTEX catalog API
type StoreClient struct {
	store       Store
	httpClient  *retryablehttp.Client
	rateLimiter *rate.Limiter
	pageSize    int
	userAgent   string
	logger      zerolog.Logger
}

// NewStoreClient creates a new catalog client for store
func NewStoreClient(store Store, opts ClientOptions, logger zerolog.Logger) *StoreClient {
	opts = opts.withDefaults()
	logger = logger.With().Str("store", store.Name).Logger()

	httpClient := retryablehttp.NewClient()
	httpClient.HTTPClient.Timeout = opts.Timeout
	httpClient.RetryMax = opts.RetryMax
	httpClient.RetryWaitMin = opts.RetryWaitMin
	httpClient.RetryWaitMax = opts.RetryWaitMax
	httpClient.Logger = retryLogger{logger: logger}
	// Hand back the last response so the status code can be reported
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &StoreClient{
		store:       store,
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		pageSize:    opts.PageSize,
		userAgent:   opts.UserAgent,
		logger:      logger,
	}
}

// Name returns the store name
func (c *StoreClient) Name() string { return c.store.Name }

// Regions returns the regions the store serves; empty means everywhere
func (c *StoreClient) Regions() []string { return c.store.Regions }

// Search returns the store's listings for term
func (c *StoreClient) Search(ctx context.Context, term string) ([]domain.ProductListing, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL, err := c.searchURL(term)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogFailure, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxResponseBody)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrCatalogFailure, err)
	}

	// VTEX answers paginated searches with 206 Partial Content
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogFailure, resp.StatusCode)
	}

	listings, err := MapProducts(body, c.store.BaseURL)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("term", term).Int("listings", len(listings)).Msg("catalog search")
	return listings, nil
}

func (c *StoreClient) searchURL(term string) (string, error) {
	base, err := url.Parse(strings.TrimRight(c.store.BaseURL, "/") + searchPath)
	if err != nil {
		return "", err
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("invalid base URL %q", c.store.BaseURL)
	}

	params := url.Values{}
	params.Set("ft", term)
	params.Set("_from", "0")
	params.Set("_to", strconv.Itoa(c.pageSize-1))
	if c.store.SalesChannel != "" {
		params.Set("sc", c.store.SalesChannel)
	}
	base.RawQuery = params.Encode()

	return base.String(), nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// retryLogger adapts zerolog to retryablehttp.LeveledLogger
type retryLogger struct {
	logger zerolog.Logger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.logger.Error().Fields(kv).Msg(msg) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.logger.Debug().Fields(kv).Msg(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.logger.Debug().Fields(kv).Msg(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.logger.Warn().Fields(kv).Msg(msg) }
