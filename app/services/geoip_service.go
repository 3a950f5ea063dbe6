package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"

	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/models"
)

// GeoIPService resolves a client IP to a location, caching results per IP.
// Private and loopback addresses short-circuit to a sentinel without I/O.
type GeoIPService interface {
	GetLocation(ctx context.Context, ip string) (*models.GeoLocation, error)
}

type geoIPService struct {
	client *http.Client
	cache  CacheService
	keys   *CacheKeyGenerator
	config *config.Config
}

// NewGeoIPService creates the resolver with its own HTTP client bounded by
// the external API timeout.
func NewGeoIPService(cache CacheService, keys *CacheKeyGenerator, cfg *config.Config) GeoIPService {
	return &geoIPService{
		client: &http.Client{Timeout: cfg.Service.ExternalAPITimeout},
		cache:  cache,
		keys:   keys,
		config: cfg,
	}
}

// geoAPIResponse mirrors the external geo endpoint's payload
type geoAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	AS          string  `json:"as"`
	Query       string  `json:"query"`
}

func (s *geoIPService) GetLocation(ctx context.Context, ip string) (*models.GeoLocation, error) {
	if IsPrivateIP(ip) {
		return &models.GeoLocation{
			Country:     "Local",
			CountryCode: "XX",
			City:        "Localhost",
		}, nil
	}

	cacheKey := s.keys.GeoIP(ip)
	var location models.GeoLocation
	if err := s.cache.Get(ctx, cacheKey, &location); err == nil {
		if err := s.cache.RefreshTTL(ctx, cacheKey, s.config.Redis.CacheTTL); err != nil {
			log.Printf("Failed to refresh geoip TTL for %s: %v", ip, err)
		}
		return &location, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.config.Service.GeoIPTimeout)
	defer cancel()

	url := fmt.Sprintf("http://ip-api.com/json/%s?fields=status,message,country,countryCode,region,regionName,city,zip,lat,lon,timezone,isp,org,as,query", ip)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.ErrExternalService.Wrap(err).WithContext("ip", ip)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, models.ErrExternalService.Wrap(err).WithContext("ip", ip)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.ErrExternalService.
			WithContext("ip", ip).
			WithContext("statusCode", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.ErrExternalService.Wrap(err).WithContext("ip", ip)
	}

	var apiResponse geoAPIResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, models.ErrExternalService.Wrap(err).WithContext("ip", ip)
	}

	if apiResponse.Status != "success" {
		return nil, models.ErrExternalService.
			WithMessage(fmt.Sprintf("geolocation lookup failed: %s", apiResponse.Message)).
			WithContext("ip", ip)
	}

	location = models.GeoLocation{
		Country:     apiResponse.Country,
		CountryCode: apiResponse.CountryCode,
		Region:      apiResponse.Region,
		RegionName:  apiResponse.RegionName,
		City:        apiResponse.City,
		Zip:         apiResponse.Zip,
		Lat:         apiResponse.Lat,
		Lon:         apiResponse.Lon,
		Timezone:    apiResponse.Timezone,
		ISP:         apiResponse.ISP,
		Org:         apiResponse.Org,
		AS:          apiResponse.AS,
		Query:       apiResponse.Query,
	}

	if err := s.cache.Set(ctx, cacheKey, &location, s.config.Redis.CacheTTL); err != nil {
		log.Printf("Failed to cache location for IP %s: %v", ip, err)
	}

	return &location, nil
}

// IsPrivateIP reports whether ip is loopback or inside 10.0.0.0/8,
// 172.16.0.0/12, 192.168.0.0/16, or the IPv6 unique-local range fc00::/7.
// Unparseable addresses are treated as private so they never reach the
// external service.
func IsPrivateIP(ip string) bool {
	if ip == "localhost" {
		return true
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}

	return parsed.IsLoopback() || parsed.IsPrivate()
}
