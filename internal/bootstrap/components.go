package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/sparkmatch/engine/internal/api"
	"github.com/sparkmatch/engine/internal/config"
	"github.com/sparkmatch/engine/internal/domain"
	"github.com/sparkmatch/engine/internal/logging"
	"github.com/sparkmatch/engine/internal/matching"
	"github.com/sparkmatch/engine/internal/metrics"
	"github.com/sparkmatch/engine/internal/mlclient"
	"github.com/sparkmatch/engine/internal/moderation"
	"github.com/sparkmatch/engine/internal/settings"
)

const redisPingTimeout = 2 * time.Second

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	DB      *sqlx.DB
	Redis   *redis.Client
	Handler *api.Handler
	Server  *api.Server
}

// NewHTTPComponents creates all components for the HTTP server.
func NewHTTPComponents(cfg *config.Config, logger logging.Logger) (*HTTPComponents, error) {
	dbComps, err := SetupDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	redisClient := SetupRedis(cfg, logger)

	settingsProvider := settings.NewProvider(
		dbComps.SettingsRepo,
		redisClient,
		cfg.Redis.SettingsCacheTTL,
		domain.RankingWeights{
			Geo:      cfg.Matching.DefaultGeoWeight,
			Interest: cfg.Matching.DefaultInterestWeight,
		},
		logger,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	engineMetrics := metrics.New(registry)

	classifier := SetupClassifier(cfg, logger)

	pipeline := moderation.NewPipeline(moderation.PipelineConfig{
		Filter:          moderation.NewKeywordFilter(logger),
		Classifier:      classifier,
		Settings:        settingsProvider,
		Flags:           dbComps.FlagsRepo,
		Alerts:          dbComps.AlertsRepo,
		Stats:           dbComps.StatsRepo,
		Metrics:         engineMetrics,
		Logger:          logger,
		ClassifyTimeout: cfg.Moderation.ClassifyTimeout,
	})

	handler := api.NewHandler(api.HandlerConfig{
		Ranker:   matching.NewRanker(logger),
		Pipeline: pipeline,
		Settings: settingsProvider,
		Alerts:   dbComps.AlertsRepo,
		Flags:    dbComps.FlagsRepo,
		Stats:    dbComps.StatsRepo,
		DB:       dbComps.DB,
		Metrics:  engineMetrics,
		Logger:   logger,
		Service:  cfg.Service.Name,
		Version:  cfg.Service.Version,
	})

	server := api.NewServer(api.ServerConfig{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Port:           cfg.Service.Port,
		Debug:          cfg.Service.Debug,
	}, logger, func(router *gin.Engine) {
		api.SetupRoutes(router, handler, registry)
	})

	return &HTTPComponents{
		DB:      dbComps.DB,
		Redis:   redisClient,
		Handler: handler,
		Server:  server,
	}, nil
}

// Close releases the components' connections.
func (c *HTTPComponents) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}

// SetupRedis creates the optional settings-cache Redis client. Returns nil
// when Redis is unreachable; the service runs without the cache.
func SetupRedis(cfg *config.Config, logger logging.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, settings cache disabled", logging.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Info("Redis connected", logging.String("address", cfg.Redis.Address))
	return client
}

// SetupClassifier creates the optional remote classifier client. Returns nil
// when no URL is configured; moderation then runs keyword-only.
func SetupClassifier(cfg *config.Config, logger logging.Logger) moderation.Classifier {
	if cfg.Moderation.ClassifierURL == "" {
		logger.Info("No classifier URL configured, running keyword-only moderation")
		return nil
	}

	client := mlclient.NewClient(cfg.Moderation.ClassifierURL, cfg.Moderation.ClassifyTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Moderation.ClassifyTimeout)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		logger.Warn("Classifier health check failed at startup",
			logging.String("url", cfg.Moderation.ClassifierURL),
			logging.Error(err),
		)
	} else {
		logger.Info("Classifier connected", logging.String("url", cfg.Moderation.ClassifierURL))
	}

	return client
}
