// Package jumbo implements the Jumbo catalog source: the mobile API client,
// the per-product detail fetch, and the normalizer for its payload shape.
package jumbo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/upfchecker/backend/internal/domain"
	"github.com/upfchecker/backend/internal/infrastructure/payload"
)

const (
	searchPath  = "/v17/search"
	productPath = "/v17/products/{id}"

	maxPageSize = 30
)

// Client talks to the Jumbo mobile API.
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a Jumbo catalog client with a bounded per-call timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("User-Agent", "Jumbo/10.4.1")

	return &Client{
		http:        http,
		rateLimiter: rate.NewLimiter(rate.Limit(5), 10),
		logger:      logger,
	}
}

// Search returns one page of raw product records for the query. Jumbo nests
// the record list under products.data.
func (c *Client) Search(ctx context.Context, query string, size, page int) ([]domain.RawRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var body map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"limit":  strconv.Itoa(size),
			"offset": strconv.Itoa(page * size),
		}).
		SetResult(&body).
		Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: jumbo: %v", domain.ErrSourceUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: jumbo: status %d", domain.ErrSourceUnavailable, resp.StatusCode())
	}

	records := payload.Slice(payload.Map(domain.RawRecord(body), "products"), "data")
	c.logger.Debug("jumbo search completed",
		zap.String("query", query),
		zap.Int("records", len(records)))
	return records, nil
}

// FetchDetail retrieves the secondary per-product payload that carries the
// ingredient list. A product without a detail page yields (nil, nil).
func (c *Client) FetchDetail(ctx context.Context, id string) (domain.RawRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var body map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&body).
		Get(productPath)
	if err != nil {
		return nil, fmt.Errorf("%w: jumbo detail %s: %v", domain.ErrSourceUnavailable, id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: jumbo detail %s: status %d", domain.ErrSourceUnavailable, id, resp.StatusCode())
	}

	return domain.RawRecord(body), nil
}

// MaxPageSize implements domain.SourceClient.
func (c *Client) MaxPageSize() int {
	return maxPageSize
}
