package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/upfchecker/backend/internal/domain"
)

// Request bounds enforced before anything is dispatched.
const (
	MinLimit = 1
	MaxLimit = 100
)

// Defaults for the tunable parts of the pipeline.
const (
	defaultResultFloor         = 5
	defaultFetchBuffer         = 5
	defaultSimilarityThreshold = 0.5
	defaultCacheTTL            = 15 * time.Minute
)

// SearchServiceConfig holds configuration for the search service. Zero values
// fall back to the defaults above.
type SearchServiceConfig struct {
	SimilarityThreshold float64
	ResultFloor         int
	FetchBuffer         int
	CacheTTL            time.Duration
}

// SearchService aggregates product search across the configured catalogs:
// concurrent per-source fan-out, normalization, broadened-retry fallback,
// optional fuzzy filtering, and the final ranked merge. It keeps no state
// between calls; each request is an independent run.
type SearchService struct {
	sources    []domain.Source
	similarity *SimilarityService
	cache      domain.CacheRepository
	threshold  float64
	floor      int
	buffer     int
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewSearchService creates the aggregation service. A nil cache disables
// response caching.
func NewSearchService(
	sources []domain.Source,
	similarity *SimilarityService,
	cache domain.CacheRepository,
	config SearchServiceConfig,
	logger *zap.Logger,
) *SearchService {
	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}
	floor := config.ResultFloor
	if floor <= 0 {
		floor = defaultResultFloor
	}
	buffer := config.FetchBuffer
	if buffer <= 0 {
		buffer = defaultFetchBuffer
	}
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &SearchService{
		sources:    sources,
		similarity: similarity,
		cache:      cache,
		threshold:  threshold,
		floor:      floor,
		buffer:     buffer,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Search runs one aggregated product search. A failing catalog contributes
// zero results and never fails the request; an empty result list is a valid
// outcome, not an error. The returned list is sorted by UPF score ascending,
// then price ascending, and truncated to the requested limit.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Product, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrInvalidQuery
	}
	if !req.Store.Valid() {
		return nil, domain.ErrInvalidStore
	}
	if req.Limit < MinLimit || req.Limit > MaxLimit {
		return nil, domain.ErrInvalidLimit
	}

	cacheKey := s.cacheKey(req)
	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	sources := s.sourcesFor(req.Store)

	// Split the limit across sources and over-fetch a little to compensate
	// for records dropped during normalization.
	size := req.Limit/len(sources) + s.buffer

	working := s.fanOut(ctx, sources, req.Query, size)

	// The fallback triggers fuzzy mode even when the caller did not ask for it.
	lowResults := len(working) < s.floor
	fuzzy := req.Fuzzy || lowResults

	if fuzzy {
		if firstWord, ok := broadenedQuery(req.Query); ok {
			extra := s.fanOut(ctx, sources, firstWord, size)
			working = mergeUnique(working, extra)
			s.logger.Info("broadened retry merged",
				zap.String("query", req.Query),
				zap.String("broadened", firstWord),
				zap.Int("total", len(working)))
		}
	}

	if fuzzy && len(working) > 0 {
		working = s.similarity.Rank(working, req.Query, s.threshold)
	}

	sort.SliceStable(working, func(i, j int) bool {
		if working[i].UPFScore != working[j].UPFScore {
			return working[i].UPFScore < working[j].UPFScore
		}
		return working[i].Price < working[j].Price
	})

	if len(working) > req.Limit {
		working = working[:req.Limit]
	}

	s.toCache(ctx, cacheKey, working)
	return working, nil
}

// fanOut dispatches one task per source and waits for all of them. Results
// keep a deterministic order: per-source order as returned by the catalog,
// sources concatenated in configuration order.
func (s *SearchService) fanOut(ctx context.Context, sources []domain.Source, query string, size int) []domain.Product {
	results := make([][]domain.Product, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src domain.Source) {
			defer wg.Done()
			results[i] = s.searchSource(ctx, src, query, size)
		}(i, src)
	}
	wg.Wait()

	var merged []domain.Product
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// searchSource runs one catalog search and normalizes its records. Any
// failure is contained here: the source contributes nothing and the other
// source's task is unaffected.
func (s *SearchService) searchSource(ctx context.Context, src domain.Source, query string, size int) (products []domain.Product) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("source task panicked",
				zap.String("source", string(src.Store)),
				zap.Any("cause", r))
			products = nil
		}
	}()

	if max := src.Client.MaxPageSize(); size > max {
		size = max
	}

	raws, err := src.Client.Search(ctx, query, size, 0)
	if err != nil {
		s.logger.Warn("source search failed",
			zap.String("source", string(src.Store)),
			zap.String("query", query),
			zap.Error(err))
		return nil
	}

	for _, raw := range raws {
		if p := src.Normalizer.Normalize(ctx, raw); p != nil {
			products = append(products, *p)
		}
	}
	return products
}

// sourcesFor selects the configured sources matching the store filter.
func (s *SearchService) sourcesFor(store domain.Store) []domain.Source {
	wanted := store.Sources()
	var selected []domain.Source
	for _, src := range s.sources {
		for _, w := range wanted {
			if src.Store == w {
				selected = append(selected, src)
				break
			}
		}
	}
	return selected
}

// broadenedQuery returns the first word of a multi-word query. Single-word
// queries cannot be broadened.
func broadenedQuery(query string) (string, bool) {
	fields := strings.Fields(query)
	if len(fields) < 2 {
		return "", false
	}
	return fields[0], true
}

// mergeUnique appends the extra products whose id is not already present.
// First seen wins.
func mergeUnique(base, extra []domain.Product) []domain.Product {
	seen := make(map[string]bool, len(base))
	for _, p := range base {
		seen[p.ID] = true
	}
	for _, p := range extra {
		if !seen[p.ID] {
			base = append(base, p)
			seen[p.ID] = true
		}
	}
	return base
}

func (s *SearchService) cacheKey(req domain.SearchRequest) string {
	return fmt.Sprintf("search:%s:%s:%t:%d",
		req.Store, strings.ToLower(strings.TrimSpace(req.Query)), req.Fuzzy, req.Limit)
}

func (s *SearchService) fromCache(ctx context.Context, key string) ([]domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		s.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return products, true
}

func (s *SearchService) toCache(ctx context.Context, key string, products []domain.Product) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
