package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/upfchecker/backend/config"
	httpDelivery "github.com/upfchecker/backend/internal/delivery/http"
	"github.com/upfchecker/backend/internal/domain"
	"github.com/upfchecker/backend/internal/infrastructure/ah"
	"github.com/upfchecker/backend/internal/infrastructure/cache"
	"github.com/upfchecker/backend/internal/infrastructure/jumbo"
	"github.com/upfchecker/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting upf-checker-api",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type))

	cacheRepo, err := newCache(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize cache", zap.Error(err))
	}

	// Source clients are long-lived, read-mostly handles shared across requests.
	ahClient := ah.NewClient(cfg.AH.BaseURL, cfg.AH.Timeout, logger)
	jumboClient := jumbo.NewClient(cfg.Jumbo.BaseURL, cfg.Jumbo.Timeout, logger)

	sources := []domain.Source{
		{
			Store:      domain.StoreAH,
			Client:     ahClient,
			Normalizer: ah.NewNormalizer(logger),
		},
		{
			Store:      domain.StoreJumbo,
			Client:     jumboClient,
			Normalizer: jumbo.NewNormalizer(jumboClient, logger),
		},
	}

	similarityService := usecase.NewSimilarityService(logger)
	searchService := usecase.NewSearchService(
		sources,
		similarityService,
		cacheRepo,
		usecase.SearchServiceConfig{
			SimilarityThreshold: cfg.Search.SimilarityThreshold,
			ResultFloor:         cfg.Search.ResultFloor,
			FetchBuffer:         cfg.Search.FetchBuffer,
			CacheTTL:            cfg.Cache.TTL,
		},
		logger,
	)

	sourceStatus := []httpDelivery.SourceStatus{
		{Store: domain.StoreAH, Ready: true},
		{Store: domain.StoreJumbo, Ready: true},
	}

	handler := httpDelivery.NewHandler(searchService, sourceStatus, cfg.Search.DefaultLimit, logger)
	router := httpDelivery.SetupRouter(cfg, logger, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newCache(cfg *config.Config, logger *zap.Logger) (domain.CacheRepository, error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("redis cache connected", zap.String("url", cfg.Cache.RedisURL))
		return redisCache, nil
	}
	return cache.NewMemoryCache(), nil
}
