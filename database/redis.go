package database

import (
	"context"
	"fmt"
	"log"

	"github.com/okhira/mijikai/config"
	"github.com/redis/go-redis/v9"
)

// Redis wraps the go-redis client used by the cache driver
type Redis struct {
	Client *redis.Client
}

// NewRedis opens the cache client with the configured pool tunables and
// verifies connectivity before returning.
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.ConnTimeout,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s:%d (db=%d)", cfg.Host, cfg.Port, cfg.DB)

	return &Redis{Client: client}, nil
}

// Close releases the client and its connection pool
func (r *Redis) Close() error {
	if err := r.Client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	log.Println("Redis connection closed")
	return nil
}
