package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	History   HistoryConfig   `mapstructure:"history"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LLMConfig holds the chat completion API configuration
type LLMConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Temperature       float32       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// CatalogConfig holds the product catalog database configuration
type CatalogConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
	MaxConns    int32  `mapstructure:"max_conns"`
}

// CacheConfig holds configuration of the relevance verdict cache
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// HistoryConfig holds per-user query history configuration
type HistoryConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds product matching configuration
type MatchingConfig struct {
	Threshold            int  `mapstructure:"threshold"`               // 0-100
	MaxCandidatesPerItem int  `mapstructure:"max_candidates_per_item"`
	ValidationBatchSize  int  `mapstructure:"validation_batch_size"`
	ContextMaxLength     int  `mapstructure:"context_max_length"`
	CategoryConcurrency  int  `mapstructure:"category_concurrency"`
	OracleConcurrency    int  `mapstructure:"oracle_concurrency"`
	ProposalAttempts     int  `mapstructure:"proposal_attempts"`
	EnableDebugLogging   bool `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the default locations.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cartwise/")
	}

	// CARTWISE_MATCHING_THRESHOLD -> matching.threshold
	v.SetEnvPrefix("CARTWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile exports KEY=VALUE lines from ./.env into the process environment.
// Variables that are already set win. A missing file is not an error.
func loadEnvFile() error {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values.
// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.request_timeout", "60s")

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.requests_per_second", 5)
	v.SetDefault("llm.burst", 10)
	v.SetDefault("llm.max_retries", 3)

	// Catalog defaults
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.max_conns", 10)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days
	v.SetDefault("cache.max_entries", 50000)

	// History defaults
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.redis_url", "")
	v.SetDefault("history.ttl", "24h")

	// Matching defaults
	v.SetDefault("matching.threshold", 65)
	v.SetDefault("matching.max_candidates_per_item", 8)
	v.SetDefault("matching.validation_batch_size", 20)
	v.SetDefault("matching.context_max_length", 200)
	v.SetDefault("matching.category_concurrency", 6)
	v.SetDefault("matching.oracle_concurrency", 6)
	v.SetDefault("matching.proposal_attempts", 3)
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set CARTWISE_LLM_API_KEY)")
	}

	if config.Catalog.DatabaseURL == "" {
		return fmt.Errorf("catalog database URL is required (set CARTWISE_CATALOG_DATABASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.History.Enabled && config.History.RedisURL == "" {
		return fmt.Errorf("history Redis URL is required when history is enabled")
	}

	if config.Matching.Threshold < 1 || config.Matching.Threshold > 100 {
		return fmt.Errorf("matching threshold must be between 1 and 100, got: %d", config.Matching.Threshold)
	}

	if config.Matching.ValidationBatchSize < 1 {
		return fmt.Errorf("validation batch size must be at least 1, got: %d", config.Matching.ValidationBatchSize)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
