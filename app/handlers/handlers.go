// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/okhira/mijikai/app/dto"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/utils"
)

// maxShortURLLength rejects path parameters no real short code can reach
const maxShortURLLength = 50

// SuccessResponse writes the standard envelope for a successful call
func SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: utils.UTCNow(),
	})
}

// ErrorResponse translates an error into the envelope. Catalogued kinds keep
// their declared HTTP status and public code; anything else becomes an
// internal server error so driver strings never leak.
func ErrorResponse(c fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.ErrInternalServer.Wrap(err)
	}

	return c.Status(appErr.HTTPStatus).JSON(dto.APIResponse{
		Success: false,
		Message: appErr.Message,
		Error: dto.ErrorDetail{
			Code:     appErr.Code,
			Message:  appErr.Message,
			Metadata: appErr.Metadata,
		},
		Timestamp: utils.UTCNow(),
	})
}
