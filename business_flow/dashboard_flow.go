package businessflow

import (
	"context"
	"encoding/json"
	"log"

	"github.com/okhira/mijikai/app/services"
	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/models"
)

// DashboardFlow is a read-through cache in front of the analytics RPC. The
// invalidation flag set by the redirect path forces the next read to refresh;
// the window between checking the flag and writing the fresh payload is
// accepted bounded staleness.
type DashboardFlow interface {
	GetDashboard(ctx context.Context, ownerID int) (*models.DashboardResponse, error)
}

type DashboardFlowImpl struct {
	rpc    services.RPCService
	cache  services.CacheService
	keys   *services.CacheKeyGenerator
	config *config.Config
}

func NewDashboardFlow(rpc services.RPCService, cache services.CacheService, keys *services.CacheKeyGenerator, cfg *config.Config) DashboardFlow {
	return &DashboardFlowImpl{
		rpc:    rpc,
		cache:  cache,
		keys:   keys,
		config: cfg,
	}
}

func (f *DashboardFlowImpl) GetDashboard(ctx context.Context, ownerID int) (*models.DashboardResponse, error) {
	cacheKey := f.keys.Dashboard(ownerID)
	flagKey := f.keys.DashboardInvalidationFlag(ownerID)

	forced := false
	flagged, err := f.cache.Exists(ctx, flagKey)
	if err != nil {
		log.Printf("Failed to check invalidation flag for owner %d: %v", ownerID, err)
	} else if flagged {
		if err := f.cache.Delete(ctx, flagKey); err != nil {
			log.Printf("Failed to delete invalidation flag for owner %d: %v", ownerID, err)
		}
		forced = true
	}

	if !forced {
		var cached models.DashboardResponse
		if err := f.cache.Get(ctx, cacheKey, &cached); err == nil {
			if err := f.cache.RefreshTTL(ctx, cacheKey, f.config.Redis.CacheTTL); err != nil {
				log.Printf("Failed to refresh dashboard TTL for owner %d: %v", ownerID, err)
			}
			return &cached, nil
		}
	}

	request := models.DashboardRequest{UserID: ownerID}
	if err := request.Validate(); err != nil {
		return nil, models.ErrInvalidInput.Wrap(err).WithContext("ownerId", ownerID)
	}

	reply, err := f.rpc.Call(ctx, f.config.RabbitMQ.Queues.DashboardRequest, &request, f.config.RabbitMQ.RPCTimeout)
	if err != nil {
		return nil, models.ErrExternalService.Wrap(err).WithContext("ownerId", ownerID)
	}

	var result models.DashboardResponse
	if err := json.Unmarshal(reply, &result); err != nil {
		return nil, models.ErrExternalService.Wrap(err).WithContext("ownerId", ownerID)
	}
	if err := result.Validate(); err != nil {
		return nil, models.ErrExternalService.Wrap(err).WithContext("ownerId", ownerID)
	}

	if result.IsError() {
		return nil, models.ErrExternalService.
			WithMessage(result.GetMessage()).
			WithContext("ownerId", ownerID)
	}

	// Limited payloads are cached too: partial data beats another RPC
	if err := f.cache.Set(ctx, cacheKey, &result, f.config.Redis.CacheTTL); err != nil {
		log.Printf("Failed to cache dashboard for owner %d: %v", ownerID, err)
	}

	return &result, nil
}
