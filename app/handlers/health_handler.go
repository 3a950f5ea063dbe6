package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/okhira/mijikai/utils"
)

// HealthHandler answers liveness probes
type HealthHandler struct {
	service string
	version string
}

func NewHealthHandler(service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version}
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "UP",
		"service":   h.service,
		"version":   h.version,
		"timestamp": utils.UTCNow(),
	})
}
