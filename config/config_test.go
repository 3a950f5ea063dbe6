package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("FailsWithoutJWTSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, 3011, cfg.App.Port)
		assert.Equal(t, "redirect-service", cfg.App.Name)
		assert.Equal(t, uint64(10), cfg.MongoDB.MinPoolSize)
		assert.Equal(t, uint64(100), cfg.MongoDB.MaxPoolSize)
		assert.Equal(t, 300*time.Second, cfg.Redis.CacheTTL)
		assert.Equal(t, 30*time.Second, cfg.Redis.InvalidationFlagTTL)
		assert.Equal(t, "click_events", cfg.RabbitMQ.Queues.ClickEvents)
		assert.Equal(t, "dashboard_request", cfg.RabbitMQ.Queues.DashboardRequest)
		assert.Equal(t, 5*time.Second, cfg.RabbitMQ.RPCTimeout)
		assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, 5*time.Second, cfg.Service.ClickTrackingTimeout)
		assert.Equal(t, 7, cfg.URL.DefaultTTLDays)
		assert.Equal(t, 6, cfg.URL.ShortCodeLength)
		assert.Equal(t, 10, cfg.URL.MaxRetries)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("REDIS_CACHE_TTL", "60")
		t.Setenv("URL_DEFAULT_TTL_DAYS", "30")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.App.Port)
		assert.Equal(t, 60*time.Second, cfg.Redis.CacheTTL)
		assert.Equal(t, 30, cfg.URL.DefaultTTLDays)
	})

	t.Run("RejectsBadShortCodeLength", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("URL_SHORT_CODE_LENGTH", "2")
		_, err := Load()
		require.Error(t, err)
	})
}
