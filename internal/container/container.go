// Package container wires configuration into the pipeline and its adapters.
package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/cartwise/backend/config"
	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/infrastructure/cache"
	"github.com/cartwise/backend/internal/infrastructure/catalog"
	"github.com/cartwise/backend/internal/infrastructure/history"
	"github.com/cartwise/backend/internal/infrastructure/llm"
	"github.com/cartwise/backend/internal/usecase"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Guard    *usecase.RequestGuard
	Pipeline *usecase.Pipeline
	History  *usecase.HistoryService // nil when history is disabled

	db           *pgxpool.Pool
	cacheRedis   *redis.Client
	historyRedis *redis.Client
	memory       *cache.MemoryCache
}

// ConfigureLogging applies level and format to the global logrus logger
func ConfigureLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// New creates a container with all dependencies initialized.
// Close must be called to release connections.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.init(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) init(ctx context.Context) error {
	cfg := c.Config
	debug := cfg.Matching.EnableDebugLogging

	// Catalog
	poolCfg, err := pgxpool.ParseConfig(cfg.Catalog.DatabaseURL)
	if err != nil {
		return fmt.Errorf("invalid catalog database URL: %w", err)
	}
	if cfg.Catalog.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Catalog.MaxConns
	}
	c.db, err = pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create catalog pool: %w", err)
	}
	if err := c.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	log.Info("[CATALOG] connected to PostgreSQL")
	catalogRepo := catalog.NewPostgresRepository(c.db)

	// Verdict cache
	var verdictStore domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		c.cacheRedis, err = connectRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("verdict cache: %w", err)
		}
		verdictStore = cache.NewRedisCache(c.cacheRedis)
		log.Info("[CACHE] using Redis verdict cache")
	default:
		c.memory = cache.NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
		verdictStore = c.memory
		log.Infof("[CACHE] using in-memory verdict cache (max %d entries)", cfg.Cache.MaxEntries)
	}

	// Oracle
	oracle := llm.NewClient(llm.Config{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		Temperature:       cfg.LLM.Temperature,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
		Burst:             cfg.LLM.Burst,
		MaxRetries:        cfg.LLM.MaxRetries,
	})
	oracle.SetDebug(debug)

	// Usecases
	c.Guard = usecase.NewRequestGuard(debug)
	matcher := usecase.NewTextMatcher(usecase.TextMatcherConfig{
		Threshold:          cfg.Matching.Threshold,
		EnableDebugLogging: debug,
	})
	validator := usecase.NewRelevanceValidator(
		oracle,
		usecase.NewValidationCache(verdictStore, cfg.Cache.TTL),
		usecase.RelevanceValidatorConfig{
			BatchSize:          cfg.Matching.ValidationBatchSize,
			ContextMaxLength:   cfg.Matching.ContextMaxLength,
			OracleConcurrency:  cfg.Matching.OracleConcurrency,
			EnableDebugLogging: debug,
		},
	)
	c.Pipeline = usecase.NewPipeline(
		catalogRepo,
		c.Guard,
		usecase.NewProposalGenerator(oracle, cfg.Matching.ProposalAttempts, debug),
		usecase.NewCandidateAggregator(matcher, cfg.Matching.MaxCandidatesPerItem, debug),
		validator,
		usecase.PipelineConfig{
			CategoryConcurrency: cfg.Matching.CategoryConcurrency,
			EnableDebugLogging:  debug,
		},
	)

	log.Infof("[PIPELINE] threshold=%d, candidates/item=%d, batch=%d, oracle slots=%d, debug=%v",
		cfg.Matching.Threshold,
		cfg.Matching.MaxCandidatesPerItem,
		cfg.Matching.ValidationBatchSize,
		cfg.Matching.OracleConcurrency,
		debug)

	// History
	if cfg.History.Enabled {
		c.historyRedis, err = connectRedis(ctx, cfg.History.RedisURL)
		if err != nil {
			return fmt.Errorf("history store: %w", err)
		}
		c.History = usecase.NewHistoryService(
			history.NewRedisRepository(c.historyRedis, cfg.History.TTL),
			usecase.NewMetadataInferer(oracle),
			c.Guard,
		)
		log.Info("[HISTORY] query history enabled")
	}

	return nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() {
	if c.memory != nil {
		c.memory.Close()
	}
	if c.cacheRedis != nil {
		c.cacheRedis.Close()
	}
	if c.historyRedis != nil {
		c.historyRedis.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
}
