package dto

import (
	"time"

	"github.com/okhira/mijikai/models"
)

// CreateLinkRequest is the authoring payload for minting a new short link
type CreateLinkRequest struct {
	OriginalURL string `json:"originalUrl" validate:"required,max=2048"`
	CustomAlias string `json:"customAlias,omitempty" validate:"omitempty,min=3,max=20"`
	Title       string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// LinkResponse is the persisted link returned to the owner
type LinkResponse struct {
	ID          string     `json:"id"`
	ShortCode   string     `json:"shortCode"`
	OriginalURL string     `json:"originalUrl"`
	CustomAlias string     `json:"customAlias,omitempty"`
	OwnerID     int        `json:"ownerId"`
	ClickCount  int64      `json:"clickCount"`
	IsActive    bool       `json:"isActive"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewLinkResponse maps a persisted link to its response shape
func NewLinkResponse(link *models.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID.Hex(),
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
		CustomAlias: link.CustomAlias,
		OwnerID:     link.OwnerID,
		ClickCount:  link.ClickCount,
		IsActive:    link.IsActive,
		ExpiresAt:   link.ExpiresAt,
		Title:       link.Title,
		Description: link.Description,
		CreatedAt:   link.CreatedAt,
	}
}

// RedirectResponse carries the resolved original URL on the hot path
type RedirectResponse struct {
	OriginalURL string `json:"originalUrl"`
}

// CollisionMetricsResponse reports allocator keyspace pressure to admins
type CollisionMetricsResponse struct {
	TotalCollisions int64 `json:"totalCollisions"`
}
