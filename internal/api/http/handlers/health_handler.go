package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk/internal/observability"
	"github.com/deskflow/helpdesk/internal/service"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	desk        *service.Desk
	metrics     *observability.Metrics
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, desk *service.Desk, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, desk: desk, metrics: metrics}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness by running a read through the desk.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	stats, err := h.desk.Stats(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "desk unavailable",
				"details": fiber.Map{"desk": err.Error()},
			},
		})
	}
	return c.JSON(fiber.Map{
		"status": "ready",
		"desk": fiber.Map{
			"tickets":    stats.TotalTickets,
			"users":      stats.TotalUsers,
			"categories": stats.TotalCategories,
		},
		"metrics": h.metrics.Snapshot(),
	})
}
