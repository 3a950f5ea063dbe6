package businessflow

import (
	"context"
	"encoding/json"
	"log"

	"github.com/okhira/mijikai/app/services"
	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/repository"
	"github.com/okhira/mijikai/utils"
)

// ClickEventFlow enriches and records one click out of band. Everything here
// is best-effort: failures are logged and absorbed so they can never reach
// the redirect response.
type ClickEventFlow interface {
	TrackClick(ctx context.Context, metadata *ClientMetadata, shortCode string) error
}

type ClickEventFlowImpl struct {
	clickRepo    repository.ClickEventRepository
	redirectFlow RedirectFlow
	geoIP        services.GeoIPService
	rpc          services.RPCService
	config       *config.Config
}

func NewClickEventFlow(
	clickRepo repository.ClickEventRepository,
	redirectFlow RedirectFlow,
	geoIP services.GeoIPService,
	rpc services.RPCService,
	cfg *config.Config,
) ClickEventFlow {
	return &ClickEventFlowImpl{
		clickRepo:    clickRepo,
		redirectFlow: redirectFlow,
		geoIP:        geoIP,
		rpc:          rpc,
		config:       cfg,
	}
}

// TrackClick runs on a fresh context owned by the caller's spawned task, so a
// disconnecting client cannot cancel analytics. It returns once its work is
// done or the logical deadline expires.
func (f *ClickEventFlowImpl) TrackClick(ctx context.Context, metadata *ClientMetadata, shortCode string) error {
	// Fire-and-forget: the counter bump gets its own deadline so it survives
	// the ingestor finishing first
	go func() {
		incCtx, cancel := context.WithTimeout(context.Background(), f.config.Service.ClickTrackingTimeout)
		defer cancel()
		if err := f.redirectFlow.IncrementClickCount(incCtx, shortCode); err != nil {
			log.Printf("Failed to increment click count for %s: %v", shortCode, err)
		}
	}()

	ua := services.ParseUserAgent(metadata.UserAgent)
	referrerDomain := services.ExtractDomain(metadata.Referrer)

	event := &models.ClickEvent{
		ShortCode:      shortCode,
		ClickedAt:      utils.UTCNow(),
		IPAddressHash:  utils.HashIP(metadata.IPAddress),
		UserAgent:      metadata.UserAgent,
		ReferrerURL:    metadata.Referrer,
		ReferrerDomain: referrerDomain,
		DeviceType:     ua.DeviceType,
		BrowserName:    ua.BrowserName,
		BrowserVersion: ua.BrowserVersion,
		OSName:         ua.OSName,
		OSVersion:      ua.OSVersion,
		IsBot:          ua.IsBot,
	}

	location, err := f.geoIP.GetLocation(ctx, metadata.IPAddress)
	if err != nil {
		log.Printf("Failed to resolve location for click on %s: %v", shortCode, err)
	} else if location != nil {
		// Geo fields are copied from the one lookup together; none are set
		// when it fails
		event.CountryCode = location.CountryCode
		event.City = location.City
		event.Region = location.RegionName
		event.Lat = location.Lat
		event.Lon = location.Lon
	}

	if err := f.clickRepo.Insert(ctx, event); err != nil {
		log.Printf("Failed to store click event for %s: %v", shortCode, err)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal click event for %s: %v", shortCode, err)
		return nil
	}

	if err := f.rpc.PublishClickEvent(ctx, f.config.RabbitMQ.Queues.ClickEvents, payload); err != nil {
		log.Printf("Failed to publish click event for %s: %v", shortCode, err)
	}

	return nil
}
