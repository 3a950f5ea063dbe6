package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyGenerator(t *testing.T) {
	keys := NewCacheKeyGenerator("mijikai")

	t.Run("URL", func(t *testing.T) {
		assert.Equal(t, "mijikai:url:abc123", keys.URL("abc123"))
	})

	t.Run("Dashboard", func(t *testing.T) {
		assert.Equal(t, "mijikai:dashboard:42", keys.Dashboard(42))
	})

	t.Run("DashboardInvalidationFlag", func(t *testing.T) {
		assert.Equal(t, "mijikai:dashboard_invalid:42", keys.DashboardInvalidationFlag(42))
	})

	t.Run("GeoIP", func(t *testing.T) {
		assert.Equal(t, "mijikai:geoip:8.8.8.8", keys.GeoIP("8.8.8.8"))
	})

	t.Run("DefaultPrefix", func(t *testing.T) {
		defaulted := NewCacheKeyGenerator("")
		assert.Equal(t, "redirect-service:url:x1y2z3", defaulted.URL("x1y2z3"))
	})
}
