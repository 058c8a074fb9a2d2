// Package settings supplies platform settings to the request path. Reads go
// through a short-lived Redis cache so moderation and ranking do not hit
// Postgres per message; any backend failure degrades to defaults.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sparkmatch/engine/internal/database"
	"github.com/sparkmatch/engine/internal/domain"
	"github.com/sparkmatch/engine/internal/logging"
)

const cacheKey = "platform:settings"

// Repository is the persistent settings store.
type Repository interface {
	Get(ctx context.Context) (*domain.PlatformSettings, error)
	Put(ctx context.Context, settings *domain.PlatformSettings) error
}

// Provider serves the current platform settings. It never fails: cache miss
// falls through to the repository, repository failure falls through to the
// configured fallback.
type Provider struct {
	repo     Repository
	cache    *redis.Client
	ttl      time.Duration
	fallback domain.PlatformSettings
	logger   logging.Logger
}

// NewProvider creates a settings provider. cache may be nil to run without
// Redis; every read then goes to the repository. defaultWeights overrides the
// stock fallback ranking weights; the zero value keeps them.
func NewProvider(repo Repository, cache *redis.Client, ttl time.Duration, defaultWeights domain.RankingWeights, logger logging.Logger) *Provider {
	fallback := domain.DefaultPlatformSettings()
	if defaultWeights != (domain.RankingWeights{}) {
		fallback.Weights = defaultWeights.Clamped()
	}
	return &Provider{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		fallback: fallback,
		logger:   logger,
	}
}

// Current returns the platform settings in effect right now.
func (p *Provider) Current(ctx context.Context) domain.PlatformSettings {
	if cached, ok := p.fromCache(ctx); ok {
		return cached
	}

	stored, err := p.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			p.logger.Warn("settings store unavailable, using defaults", logging.Error(err))
		}
		return p.fallback
	}

	settings := *stored
	settings.Weights = settings.Weights.Clamped()
	p.toCache(ctx, settings)
	return settings
}

// Update persists new settings and drops the cached copy so the next read
// sees them.
func (p *Provider) Update(ctx context.Context, settings *domain.PlatformSettings) error {
	if err := p.repo.Put(ctx, settings); err != nil {
		return err
	}
	p.invalidate(ctx)
	return nil
}

func (p *Provider) fromCache(ctx context.Context) (domain.PlatformSettings, bool) {
	if p.cache == nil {
		return domain.PlatformSettings{}, false
	}

	payload, err := p.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Debug("settings cache read failed", logging.Error(err))
		}
		return domain.PlatformSettings{}, false
	}

	var settings domain.PlatformSettings
	if err := json.Unmarshal(payload, &settings); err != nil {
		p.logger.Warn("settings cache entry unreadable, dropping", logging.Error(err))
		p.invalidate(ctx)
		return domain.PlatformSettings{}, false
	}

	return settings, true
}

func (p *Provider) toCache(ctx context.Context, settings domain.PlatformSettings) {
	if p.cache == nil {
		return
	}

	payload, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, cacheKey, payload, p.ttl).Err(); err != nil {
		p.logger.Debug("settings cache write failed", logging.Error(err))
	}
}

func (p *Provider) invalidate(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Del(ctx, cacheKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		p.logger.Debug("settings cache invalidation failed", logging.Error(err))
	}
}
