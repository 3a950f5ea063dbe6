// Package services provides external service integrations and technical concerns like caching, tokens, and RPC
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/okhira/mijikai/database"
	"github.com/okhira/mijikai/models"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss marks a bona fide miss, as opposed to an infrastructure fault
var ErrCacheMiss = errors.New("cache miss")

// invalidationFlagValue is the literal stored under invalidation-flag keys
const invalidationFlagValue = "1"

// CacheService is the typed cache driver in front of the distributed KV
// store. Values are JSON bytes. Operations honor the ambient deadline and
// never retry internally.
type CacheService interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	RefreshTTL(ctx context.Context, key string, ttl time.Duration) error
	SetInvalidationFlag(ctx context.Context, key string, ttl time.Duration) error
}

type cacheService struct {
	redis *database.Redis
}

// NewCacheService creates the cache driver on top of the shared Redis client
func NewCacheService(rdb *database.Redis) CacheService {
	return &cacheService{redis: rdb}
}

func (s *cacheService) Get(ctx context.Context, key string, dest any) error {
	data, err := s.redis.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return models.ErrCacheError.Wrap(err).WithContext("key", key).WithContext("operation", "get")
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return models.ErrCacheError.Wrap(err).WithContext("key", key).WithContext("operation", "unmarshal")
	}

	return nil
}

func (s *cacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return models.ErrCacheError.Wrap(err).WithContext("key", key).WithContext("operation", "marshal")
	}

	if err := s.redis.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return models.ErrCacheError.Wrap(err).WithContext("key", key).WithContext("operation", "set")
	}

	return nil
}

func (s *cacheService) Delete(ctx context.Context, key string) error {
	if err := s.redis.Client.Del(ctx, key).Err(); err != nil {
		return models.ErrCacheError.Wrap(err).WithContext("key", key).WithContext("operation", "delete")
	}

	return nil
}

func (s *cacheService) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.redis.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, models.ErrCacheError.Wrap(err).WithContext("key", key).WithContext("operation", "exists")
	}

	return count > 0, nil
}

func (s *cacheService) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.redis.Client.Expire(ctx, key, ttl).Err(); err != nil {
		return models.ErrCacheError.Wrap(err).WithContext("key", key).WithContext("operation", "expire")
	}

	return nil
}

func (s *cacheService) SetInvalidationFlag(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.redis.Client.Set(ctx, key, invalidationFlagValue, ttl).Err(); err != nil {
		return models.ErrCacheError.Wrap(err).WithContext("key", key).WithContext("operation", "set_flag")
	}

	return nil
}
