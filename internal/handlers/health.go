package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"gorm.io/gorm"
)

// HealthHandler handles the liveness route
type HealthHandler struct {
	Cfg *config.Config
	DB  *gorm.DB
}

// Get handles GET /api/health
// @Summary Service health
// @Description Report database and identity provider reachability
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
