package businessflow

import (
	"context"
	"errors"
	"log"

	"github.com/okhira/mijikai/app/services"
	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/repository"
)

// RedirectFlow serves the hot-path lookup through a two-tier read path: the
// distributed cache first, the store on a miss. Dead links are never cached.
type RedirectFlow interface {
	GetURL(ctx context.Context, shortURL string) (*models.LinkProjection, error)
	IncrementClickCount(ctx context.Context, shortURL string) error
}

type RedirectFlowImpl struct {
	repo   repository.LinkRepository
	cache  services.CacheService
	keys   *services.CacheKeyGenerator
	config *config.Config
}

func NewRedirectFlow(repo repository.LinkRepository, cache services.CacheService, keys *services.CacheKeyGenerator, cfg *config.Config) RedirectFlow {
	return &RedirectFlowImpl{
		repo:   repo,
		cache:  cache,
		keys:   keys,
		config: cfg,
	}
}

func (f *RedirectFlowImpl) GetURL(ctx context.Context, shortURL string) (*models.LinkProjection, error) {
	cacheKey := f.keys.URL(shortURL)

	var cached models.LinkProjection
	err := f.cache.Get(ctx, cacheKey, &cached)
	if err == nil {
		if err := f.cache.RefreshTTL(ctx, cacheKey, f.config.Redis.CacheTTL); err != nil {
			log.Printf("Failed to refresh TTL for %s: %v", cacheKey, err)
		}
		f.flagDashboard(ctx, cached.OwnerID)
		return &cached, nil
	}
	if !errors.Is(err, services.ErrCacheMiss) {
		// Cache faults degrade to a store read instead of failing the request
		log.Printf("Cache read failed for %s, falling back to store: %v", cacheKey, err)
	}

	link, err := f.repo.FindByShortCode(ctx, shortURL)
	if err != nil {
		// Not-found, inactive, and expired links stay out of the cache
		return nil, err
	}

	if err := f.cache.Set(ctx, cacheKey, link, f.config.Redis.CacheTTL); err != nil {
		log.Printf("Failed to cache %s: %v", cacheKey, err)
	}
	f.flagDashboard(ctx, link.OwnerID)

	return link, nil
}

// flagDashboard marks the owner's dashboard stale. The flag is the only
// cross-service invalidation signal: the dashboard consumer interprets it, so
// the redirect side never needs to know dashboard key shapes beyond its own
// namer. It must never block or fail the redirect.
func (f *RedirectFlowImpl) flagDashboard(ctx context.Context, ownerID int) {
	flagKey := f.keys.DashboardInvalidationFlag(ownerID)
	if err := f.cache.SetInvalidationFlag(ctx, flagKey, f.config.Redis.InvalidationFlagTTL); err != nil {
		log.Printf("Failed to set dashboard invalidation flag for owner %d: %v", ownerID, err)
	}
}

func (f *RedirectFlowImpl) IncrementClickCount(ctx context.Context, shortURL string) error {
	return f.repo.IncrementClickCount(ctx, shortURL)
}
