package domain

import "errors"

var (
	// ErrInvalidQuery is returned when the search query is missing or empty
	ErrInvalidQuery = errors.New("query must not be empty")

	// ErrInvalidStore is returned when the store filter is not ah, jumbo or both
	ErrInvalidStore = errors.New("store must be one of: ah, jumbo, both")

	// ErrInvalidLimit is returned when the requested limit is outside 1..100
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")

	// ErrSourceUnavailable is returned when a catalog search request fails
	ErrSourceUnavailable = errors.New("catalog request failed")

	// ErrDetailNotFound is returned when a per-product detail lookup has no result
	ErrDetailNotFound = errors.New("product detail not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
