package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters fail validation
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrOracleUnavailable is returned when the language model cannot be reached or times out
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrMalformedResponse is returned when the language model answers with an unusable shape
	ErrMalformedResponse = errors.New("malformed oracle response")

	// ErrCatalogUnavailable is returned when the catalog store query fails
	ErrCatalogUnavailable = errors.New("catalog store unavailable")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrHistoryNotFound is returned when a user has no stored queries
	ErrHistoryNotFound = errors.New("no queries found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
