package businessflow

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/okhira/mijikai/app/services"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardReply(t *testing.T, status string) []byte {
	t.Helper()
	reply := models.DashboardResponse{
		UserID:       42,
		TotalClicks:  120,
		TotalLinks:   8,
		UniqVisitors: 64,
		TopLinks: []models.TopLink{
			{ShortURL: "abc123", OriginalURL: "https://example.com", Clicks: 40, Status: "active"},
		},
		StatLinks: []models.StatLink{{Date: "2025-07-01", Clicks: 12}},
		Status:    status,
	}
	if status == models.DashboardStatusError {
		reply.Message = utils.ToPtr("analytics backend unavailable")
	}
	data, err := json.Marshal(&reply)
	require.NoError(t, err)
	return data
}

func TestDashboardFlow(t *testing.T) {
	keys := services.NewCacheKeyGenerator("test")

	t.Run("CacheHitSkipsRPC", func(t *testing.T) {
		cache := newFakeCache()
		rpc := &fakeRPC{reply: dashboardReply(t, models.DashboardStatusSuccess)}
		flow := NewDashboardFlow(rpc, cache, keys, flowTestConfig())

		cached := models.DashboardResponse{UserID: 42, TotalClicks: 99, Status: models.DashboardStatusSuccess}
		require.NoError(t, cache.Set(context.Background(), keys.Dashboard(42), &cached, time.Minute))

		result, err := flow.GetDashboard(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, 99, result.TotalClicks)
		assert.Equal(t, 0, rpc.Calls())
		assert.Equal(t, 1, cache.refreshed[keys.Dashboard(42)])
	})

	t.Run("InvalidationFlagForcesRefresh", func(t *testing.T) {
		cache := newFakeCache()
		rpc := &fakeRPC{reply: dashboardReply(t, models.DashboardStatusSuccess)}
		flow := NewDashboardFlow(rpc, cache, keys, flowTestConfig())

		stale := models.DashboardResponse{UserID: 42, TotalClicks: 1, Status: models.DashboardStatusSuccess}
		require.NoError(t, cache.Set(context.Background(), keys.Dashboard(42), &stale, time.Minute))
		require.NoError(t, cache.SetInvalidationFlag(context.Background(), keys.DashboardInvalidationFlag(42), 30*time.Second))

		result, err := flow.GetDashboard(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, 120, result.TotalClicks)
		assert.Equal(t, 1, rpc.Calls())
		assert.False(t, cache.has(keys.DashboardInvalidationFlag(42)))

		// Fresh payload replaced the stale cache entry
		var recached models.DashboardResponse
		require.NoError(t, cache.Get(context.Background(), keys.Dashboard(42), &recached))
		assert.Equal(t, 120, recached.TotalClicks)
	})

	t.Run("MissCallsRPCAndCaches", func(t *testing.T) {
		cache := newFakeCache()
		rpc := &fakeRPC{reply: dashboardReply(t, models.DashboardStatusSuccess)}
		flow := NewDashboardFlow(rpc, cache, keys, flowTestConfig())

		result, err := flow.GetDashboard(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, 8, result.TotalLinks)
		assert.True(t, cache.has(keys.Dashboard(42)))
	})

	t.Run("LimitedPayloadIsReturnedAndCached", func(t *testing.T) {
		cache := newFakeCache()
		rpc := &fakeRPC{reply: dashboardReply(t, models.DashboardStatusLimited)}
		flow := NewDashboardFlow(rpc, cache, keys, flowTestConfig())

		result, err := flow.GetDashboard(context.Background(), 42)
		require.NoError(t, err)
		assert.True(t, result.IsLimited())
		assert.True(t, cache.has(keys.Dashboard(42)))
	})

	t.Run("ErrorStatusBecomesExternalServiceError", func(t *testing.T) {
		cache := newFakeCache()
		rpc := &fakeRPC{reply: dashboardReply(t, models.DashboardStatusError)}
		flow := NewDashboardFlow(rpc, cache, keys, flowTestConfig())

		_, err := flow.GetDashboard(context.Background(), 42)
		require.Error(t, err)
		assert.True(t, IsExternalServiceError(err))

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "analytics backend unavailable", appErr.Message)
		assert.False(t, cache.has(keys.Dashboard(42)))
	})

	t.Run("RPCTimeoutBecomesExternalServiceError", func(t *testing.T) {
		cache := newFakeCache()
		rpc := &fakeRPC{callErr: models.ErrTimeout}
		flow := NewDashboardFlow(rpc, cache, keys, flowTestConfig())

		_, err := flow.GetDashboard(context.Background(), 42)
		require.Error(t, err)
		assert.True(t, IsExternalServiceError(err))
	})

	t.Run("InvalidOwnerRejected", func(t *testing.T) {
		cache := newFakeCache()
		rpc := &fakeRPC{reply: dashboardReply(t, models.DashboardStatusSuccess)}
		flow := NewDashboardFlow(rpc, cache, keys, flowTestConfig())

		_, err := flow.GetDashboard(context.Background(), 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		assert.Equal(t, 0, rpc.Calls())
	})
}
