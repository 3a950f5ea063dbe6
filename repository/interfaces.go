// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/okhira/mijikai/models"
)

// ErrDuplicateShortCode is surfaced when an insert hits the unique shortCode
// index. The allocator retries on it; the custom-alias path converts it to a
// caller-visible collision.
var ErrDuplicateShortCode = errors.New("short code already exists")

// LinkRepository defines operations for link records
type LinkRepository interface {
	// FindByShortCode returns the hot-path projection for a non-deleted
	// link, or URL_NOT_FOUND / URL_INACTIVE / URL_EXPIRED.
	FindByShortCode(ctx context.Context, shortCode string) (*models.LinkProjection, error)
	// IncrementClickCount atomically bumps the counter and updatedAt
	IncrementClickCount(ctx context.Context, shortCode string) error
	// ExistsByShortCode probes the keyspace without fetching the record
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	// Insert persists a new link; duplicate short codes surface as
	// ErrDuplicateShortCode
	Insert(ctx context.Context, link *models.Link) error
}

// ClickEventRepository defines append-only operations for click events
type ClickEventRepository interface {
	Insert(ctx context.Context, event *models.ClickEvent) error
}
