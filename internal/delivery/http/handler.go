package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/upfchecker/backend/internal/domain"
)

// ProductSearcher is the slice of the search service the handlers need.
type ProductSearcher interface {
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.Product, error)
}

// SourceStatus reports whether one upstream catalog client came up.
type SourceStatus struct {
	Store domain.Store `json:"store"`
	Ready bool         `json:"ready"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search       ProductSearcher
	sources      []SourceStatus
	defaultLimit int
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(search ProductSearcher, sources []SourceStatus, defaultLimit int, logger *zap.Logger) *Handler {
	return &Handler{
		search:       search,
		sources:      sources,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Status reports the service identity and per-source client readiness.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "upf-checker-api",
		"version": "1.0.0",
		"sources": h.sources,
		"endpoints": gin.H{
			"search": "/api/search?query=SEARCH_TERM&store=ah|jumbo|both",
		},
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "upf-checker-api",
	})
}

// SearchProducts handles GET /api/search. Bad query parameters are a 400;
// upstream failures are not: partial or empty results still return 200 with a
// well-formed products array.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("query")
	store := domain.Store(c.DefaultQuery("store", string(domain.StoreBoth)))
	fuzzy, _ := strconv.ParseBool(c.DefaultQuery("fuzzy", "false"))

	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidLimit.Error()})
			return
		}
		limit = parsed
	}

	products, err := h.search.Search(c.Request.Context(), domain.SearchRequest{
		Query: query,
		Store: store,
		Fuzzy: fuzzy,
		Limit: limit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) ||
			errors.Is(err, domain.ErrInvalidStore) ||
			errors.Is(err, domain.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
