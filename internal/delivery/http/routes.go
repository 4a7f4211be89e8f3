package http

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/upfchecker/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, logger *zap.Logger, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(requestid.New())
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Liveness endpoints
	router.GET("/", handler.Status)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/search", handler.SearchProducts)
	}

	return router
}
