// Package ah implements the Albert Heijn catalog source: the mobile API
// client and the normalizer for its search payload shape.
package ah

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/upfchecker/backend/internal/domain"
	"github.com/upfchecker/backend/internal/infrastructure/payload"
)

const (
	searchPath = "/mobile-services/product/search/v2"

	// The mobile API rejects pages larger than this.
	maxPageSize = 50
)

// Client talks to the Albert Heijn mobile API.
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates an Albert Heijn catalog client. The timeout bounds every
// outbound call; requests are retried twice with backoff on transient errors.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("User-Agent", "Appie/8.22.3").
		SetHeader("X-Application", "AHWEBSHOP")

	// AH throttles aggressive clients; 5 req/s with a small burst is safe.
	return &Client{
		http:        http,
		rateLimiter: rate.NewLimiter(rate.Limit(5), 10),
		logger:      logger,
	}
}

// Search returns one page of raw product records for the query.
func (c *Client) Search(ctx context.Context, query string, size, page int) ([]domain.RawRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var body map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query": query,
			"size":  strconv.Itoa(size),
			"page":  strconv.Itoa(page),
		}).
		SetResult(&body).
		Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: ah: %v", domain.ErrSourceUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: ah: status %d", domain.ErrSourceUnavailable, resp.StatusCode())
	}

	records := payload.Slice(domain.RawRecord(body), "products")
	c.logger.Debug("ah search completed",
		zap.String("query", query),
		zap.Int("records", len(records)))
	return records, nil
}

// MaxPageSize implements domain.SourceClient.
func (c *Client) MaxPageSize() int {
	return maxPageSize
}
