package businessflow

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/okhira/mijikai/app/dto"
	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/repository"
	"github.com/okhira/mijikai/utils"
)

// customAliasPattern bounds aliases to the short-code character set
var customAliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// LinkFlow mints new short links: it normalizes the original URL, reserves a
// code (or the caller's custom alias), and persists the composed link.
type LinkFlow interface {
	Create(ctx context.Context, req *dto.CreateLinkRequest, ownerID int) (*models.Link, error)
	CollisionCount() int64
}

type LinkFlowImpl struct {
	repo      repository.LinkRepository
	allocator ShortCodeAllocator
	validate  *validator.Validate
	config    *config.Config
}

func NewLinkFlow(repo repository.LinkRepository, allocator ShortCodeAllocator, cfg *config.Config) LinkFlow {
	return &LinkFlowImpl{
		repo:      repo,
		allocator: allocator,
		validate:  validator.New(),
		config:    cfg,
	}
}

func (f *LinkFlowImpl) Create(ctx context.Context, req *dto.CreateLinkRequest, ownerID int) (*models.Link, error) {
	if req == nil {
		return nil, models.ErrMissingRequired.WithMessage("request body is required")
	}
	if err := f.validate.Struct(req); err != nil {
		return nil, models.ErrInvalidInput.Wrap(err)
	}

	normalized, err := utils.NormalizeURL(req.OriginalURL)
	if err != nil {
		return nil, models.ErrInvalidFormat.Wrap(err).WithContext("originalUrl", req.OriginalURL)
	}

	link := &models.Link{
		OriginalURL: normalized.URL,
		CustomAlias: req.CustomAlias,
		OwnerID:     ownerID,
		ClickCount:  0,
		IsActive:    true,
		ExpiresAt:   utils.UTCNowAddPtr(time.Duration(f.config.URL.DefaultTTLDays) * 24 * time.Hour),
		Title:       req.Title,
		Description: req.Description,
		Metadata: models.LinkMetadata{
			Domain:   normalized.Domain,
			Protocol: normalized.Protocol,
			Path:     normalized.Path,
		},
	}

	if req.CustomAlias != "" {
		if err := f.createWithAlias(ctx, link, req.CustomAlias); err != nil {
			return nil, err
		}
		return link, nil
	}

	if err := f.allocator.Allocate(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// createWithAlias reserves the literal alias. Uniqueness is enforced by the
// insert itself, so concurrent requests for the same alias race at the store
// and exactly one wins.
func (f *LinkFlowImpl) createWithAlias(ctx context.Context, link *models.Link, alias string) error {
	if !customAliasPattern.MatchString(alias) {
		return models.ErrInvalidFormat.
			WithMessage("custom alias must be 3-20 characters of letters, digits, underscore, or dash").
			WithContext("customAlias", alias)
	}

	// Fast-path probe; the insert below still decides races authoritatively
	taken, err := f.repo.ExistsByShortCode(ctx, alias)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrCustomAliasTaken.WithContext("customAlias", alias)
	}

	link.ShortCode = alias
	if err := f.repo.Insert(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicateShortCode) {
			return models.ErrCustomAliasTaken.WithContext("customAlias", alias)
		}
		return err
	}

	return nil
}

func (f *LinkFlowImpl) CollisionCount() int64 {
	return f.allocator.CollisionCount()
}
