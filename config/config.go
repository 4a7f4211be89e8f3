package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	AH     SourceConfig
	Jumbo  SourceConfig
	Cache  CacheConfig
	Search SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourceConfig holds one upstream catalog's connection settings
type SourceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SearchConfig holds the aggregation pipeline's tuning knobs
type SearchConfig struct {
	DefaultLimit        int     `mapstructure:"default_limit"`
	ResultFloor         int     `mapstructure:"result_floor"`
	FetchBuffer         int     `mapstructure:"fetch_buffer"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/upfchecker/")

	// Environment variable settings
	v.SetEnvPrefix("UPF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Source defaults
	v.SetDefault("ah.base_url", "https://api.ah.nl")
	v.SetDefault("ah.timeout", "10s")
	v.SetDefault("jumbo.base_url", "https://mobileapi.jumbo.com")
	v.SetDefault("jumbo.timeout", "10s")

	// Cache defaults. The empty redis_url default keeps the env binding alive
	// for UPF_CACHE_REDIS_URL.
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "15m")

	// Search defaults
	v.SetDefault("search.default_limit", 25)
	v.SetDefault("search.result_floor", 5)
	v.SetDefault("search.fetch_buffer", 5)
	v.SetDefault("search.similarity_threshold", 0.5)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.AH.BaseURL == "" || config.Jumbo.BaseURL == "" {
		return fmt.Errorf("both source base URLs are required")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Search.DefaultLimit < 1 || config.Search.DefaultLimit > 100 {
		return fmt.Errorf("default limit must be within 1..100, got: %d", config.Search.DefaultLimit)
	}

	if config.Search.SimilarityThreshold <= 0 || config.Search.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0,1], got: %g", config.Search.SimilarityThreshold)
	}

	return nil
}
