package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/okhira/mijikai/app/dto"
	"github.com/okhira/mijikai/app/middleware"
	businessflow "github.com/okhira/mijikai/business_flow"
	"github.com/okhira/mijikai/models"
)

// DashboardHandlerInterface defines the owner analytics endpoint
type DashboardHandlerInterface interface {
	GetDashboard(c fiber.Ctx) error
}

type DashboardHandler struct {
	flow businessflow.DashboardFlow
}

func NewDashboardHandler(flow businessflow.DashboardFlow) DashboardHandlerInterface {
	return &DashboardHandler{flow: flow}
}

// GetDashboard returns the owner's analytics figures, served from cache when
// fresh and refreshed over RPC otherwise
func (h *DashboardHandler) GetDashboard(c fiber.Ctx) error {
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok || ownerID <= 0 {
		return ErrorResponse(c, models.ErrUnauthorized)
	}

	data, err := h.flow.GetDashboard(c.Context(), ownerID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return SuccessResponse(c, fiber.StatusOK, "Dashboard retrieved successfully", dto.NewDashboardData(data))
}
