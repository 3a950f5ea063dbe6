package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	businessflow "github.com/okhira/mijikai/business_flow"
	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/models"

	"github.com/okhira/mijikai/app/dto"
)

// RedirectHandlerInterface defines the public resolution endpoints
type RedirectHandlerInterface interface {
	Redirect(c fiber.Ctx) error
	GetURLInfo(c fiber.Ctx) error
}

type RedirectHandler struct {
	redirectFlow businessflow.RedirectFlow
	clickFlow    businessflow.ClickEventFlow
	config       *config.Config
}

func NewRedirectHandler(redirectFlow businessflow.RedirectFlow, clickFlow businessflow.ClickEventFlow, cfg *config.Config) RedirectHandlerInterface {
	return &RedirectHandler{
		redirectFlow: redirectFlow,
		clickFlow:    clickFlow,
		config:       cfg,
	}
}

// Redirect resolves a short URL and returns the original URL. Click tracking
// is spawned after the response is composed, on its own deadline, so a client
// disconnect cannot cancel it.
func (h *RedirectHandler) Redirect(c fiber.Ctx) error {
	shortURL := c.Params("shortUrl")
	if err := validateShortURL(shortURL); err != nil {
		return ErrorResponse(c, err)
	}

	link, err := h.redirectFlow.GetURL(c.Context(), shortURL)
	if err != nil {
		return ErrorResponse(c, err)
	}

	err = SuccessResponse(c, fiber.StatusOK, "URL retrieved successfully", dto.RedirectResponse{
		OriginalURL: link.OriginalURL,
	})

	h.spawnClickTracking(c, shortURL)

	return err
}

// GetURLInfo returns the original URL without recording a click
func (h *RedirectHandler) GetURLInfo(c fiber.Ctx) error {
	shortURL := c.Params("shortUrl")
	if err := validateShortURL(shortURL); err != nil {
		return ErrorResponse(c, err)
	}

	link, err := h.redirectFlow.GetURL(c.Context(), shortURL)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return SuccessResponse(c, fiber.StatusOK, "URL info retrieved successfully", dto.RedirectResponse{
		OriginalURL: link.OriginalURL,
	})
}

// spawnClickTracking runs ingestion under a context created from Background,
// not from the request, bounded by the click-tracking timeout.
func (h *RedirectHandler) spawnClickTracking(c fiber.Ctx, shortURL string) {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"), c.Get("Referer"))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.config.Service.ClickTrackingTimeout)
		defer cancel()

		if err := h.clickFlow.TrackClick(ctx, metadata, shortURL); err != nil {
			log.Printf("Failed to track click for %s: %v", shortURL, err)
		}
	}()
}

func validateShortURL(shortURL string) error {
	if shortURL == "" {
		return models.ErrInvalidInput.WithMessage("short URL is required")
	}
	if len(shortURL) > maxShortURLLength {
		return models.ErrInvalidInput.
			WithMessage("short URL is too long").
			WithContext("length", len(shortURL))
	}
	return nil
}
