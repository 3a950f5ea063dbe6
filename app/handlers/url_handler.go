package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/okhira/mijikai/app/dto"
	"github.com/okhira/mijikai/app/middleware"
	businessflow "github.com/okhira/mijikai/business_flow"
	"github.com/okhira/mijikai/models"
)

// URLHandlerInterface defines the authoring endpoints
type URLHandlerInterface interface {
	Create(c fiber.Ctx) error
	CollisionMetrics(c fiber.Ctx) error
}

type URLHandler struct {
	flow businessflow.LinkFlow
}

func NewURLHandler(flow businessflow.LinkFlow) URLHandlerInterface {
	return &URLHandler{flow: flow}
}

// Create mints a new short link for the authenticated owner
func (h *URLHandler) Create(c fiber.Ctx) error {
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok || ownerID <= 0 {
		return ErrorResponse(c, models.ErrUnauthorized)
	}

	var req dto.CreateLinkRequest
	if err := c.Bind().Body(&req); err != nil {
		return ErrorResponse(c, models.ErrInvalidFormat.Wrap(err))
	}

	link, err := h.flow.Create(c.Context(), &req, ownerID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Short link created successfully", dto.NewLinkResponse(link))
}

// CollisionMetrics reports allocator keyspace pressure to administrators
func (h *URLHandler) CollisionMetrics(c fiber.Ctx) error {
	return SuccessResponse(c, fiber.StatusOK, "Collision metrics retrieved successfully", dto.CollisionMetricsResponse{
		TotalCollisions: h.flow.CollisionCount(),
	})
}
