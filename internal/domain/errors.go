package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrCatalogFailure is returned when a store catalog request fails
	ErrCatalogFailure = errors.New("catalog request failed")

	// ErrStoreNotFound is returned when a store name is not configured
	ErrStoreNotFound = errors.New("store not configured")
)
