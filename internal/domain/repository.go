package domain

import (
	"context"
	"time"
)

// SourceClient defines the interface for searching one supermarket catalog.
type SourceClient interface {
	// Search returns the raw records for one result page. Records keep the
	// order the catalog returned them in.
	Search(ctx context.Context, query string, size, page int) ([]RawRecord, error)

	// MaxPageSize is the largest page the catalog accepts per request.
	MaxPageSize() int
}

// DetailFetcher retrieves the secondary per-product payload for catalogs that
// do not embed ingredient text in their search response. A missing detail is
// reported as (nil, nil), not as an error.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id string) (RawRecord, error)
}

// Normalizer converts one raw catalog record into the common product shape.
// It returns nil when the record cannot be recovered; it never panics past
// its own boundary and never fails the batch.
type Normalizer interface {
	Normalize(ctx context.Context, raw RawRecord) *Product
}

// Source bundles a catalog client with the normalizer for its payload shape.
type Source struct {
	Store      Store
	Client     SourceClient
	Normalizer Normalizer
}

// CacheRepository defines the interface for caching serialized search results.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
