package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Link represents the authoritative record mapping a short code to its
// original URL, plus ownership and lifecycle flags.
// ShortCode is unique among non-deleted links; ClickCount is eventually
// consistent with recorded click events.
type Link struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShortCode   string             `bson:"shortCode" json:"shortCode"`
	OriginalURL string             `bson:"originalUrl" json:"originalUrl"`
	CustomAlias string             `bson:"customAlias,omitempty" json:"customAlias,omitempty"`
	OwnerID     int                `bson:"ownerId" json:"ownerId"`
	ClickCount  int64              `bson:"clickCount" json:"clickCount"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	IsDeleted   bool               `bson:"isDeleted" json:"isDeleted"`
	ExpiresAt   *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Metadata    LinkMetadata       `bson:"metadata" json:"metadata"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LinkMetadata holds descriptive fields derived from the original URL at create time
type LinkMetadata struct {
	Domain   string `bson:"domain,omitempty" json:"domain,omitempty"`
	Protocol string `bson:"protocol,omitempty" json:"protocol,omitempty"`
	Path     string `bson:"path,omitempty" json:"path,omitempty"`
}

// LinkProjection is the four-field subset of Link served on the redirect hot
// path. Nothing else is allowed into the cache payload.
type LinkProjection struct {
	OriginalURL string     `bson:"originalUrl" json:"originalUrl"`
	IsActive    bool       `bson:"isActive" json:"isActive"`
	OwnerID     int        `bson:"ownerId" json:"ownerId"`
	ExpiresAt   *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// CollectionName returns the collection name for Link
func (Link) CollectionName() string { return "links" }
