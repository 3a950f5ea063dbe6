package services

import "fmt"

// CacheKeyGenerator is the single source of truth for cache key strings.
// Every key has the form {appPrefix}:{family}:{id}.
type CacheKeyGenerator struct {
	prefix string
}

// NewCacheKeyGenerator creates a key generator; the prefix defaults to the
// service name when empty.
func NewCacheKeyGenerator(appName string) *CacheKeyGenerator {
	if appName == "" {
		appName = "redirect-service"
	}
	return &CacheKeyGenerator{prefix: appName}
}

// URL is the key of a cached link projection
func (g *CacheKeyGenerator) URL(shortCode string) string {
	return fmt.Sprintf("%s:url:%s", g.prefix, shortCode)
}

// Dashboard is the key of a cached dashboard payload
func (g *CacheKeyGenerator) Dashboard(ownerID int) string {
	return fmt.Sprintf("%s:dashboard:%d", g.prefix, ownerID)
}

// DashboardInvalidationFlag is the key of the marker that forces the next
// dashboard read to refresh from the analytics service
func (g *CacheKeyGenerator) DashboardInvalidationFlag(ownerID int) string {
	return fmt.Sprintf("%s:dashboard_invalid:%d", g.prefix, ownerID)
}

// GeoIP is the key of a cached geo lookup result
func (g *CacheKeyGenerator) GeoIP(ip string) string {
	return fmt.Sprintf("%s:geoip:%s", g.prefix, ip)
}
