package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClickEvent is the append-only record describing one resolution of a short
// code. IPAddressHash is a lower-hex SHA-256 of the client IP; the raw IP is
// never stored. Geo fields are copied together from one lookup and are all
// left empty when the lookup fails; members the lookup leaves empty or zero
// (the private-address sentinel has no region or coordinates) are omitted, so
// a stored group can be partial.
type ClickEvent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShortCode      string             `bson:"shortCode" json:"shortCode"`
	ClickedAt      time.Time          `bson:"clickedAt" json:"clickedAt"`
	IPAddressHash  string             `bson:"ipAddressHash" json:"ipAddressHash"`
	UserAgent      string             `bson:"userAgent" json:"userAgent"`
	ReferrerURL    string             `bson:"referrerUrl,omitempty" json:"referrerUrl,omitempty"`
	ReferrerDomain string             `bson:"referrerDomain,omitempty" json:"referrerDomain,omitempty"`
	DeviceType     string             `bson:"deviceType,omitempty" json:"deviceType,omitempty"` // mobile, tablet, desktop, unknown
	BrowserName    string             `bson:"browserName,omitempty" json:"browserName,omitempty"`
	BrowserVersion string             `bson:"browserVersion,omitempty" json:"browserVersion,omitempty"`
	OSName         string             `bson:"osName,omitempty" json:"osName,omitempty"`
	OSVersion      string             `bson:"osVersion,omitempty" json:"osVersion,omitempty"`
	IsBot          bool               `bson:"isBot" json:"isBot"`
	CountryCode    string             `bson:"countryCode,omitempty" json:"countryCode,omitempty"`
	City           string             `bson:"city,omitempty" json:"city,omitempty"`
	Region         string             `bson:"region,omitempty" json:"region,omitempty"`
	Lat            float64            `bson:"lat,omitempty" json:"lat,omitempty"`
	Lon            float64            `bson:"lon,omitempty" json:"lon,omitempty"`
}

// CollectionName returns the collection name for ClickEvent
func (ClickEvent) CollectionName() string { return "click_events" }
