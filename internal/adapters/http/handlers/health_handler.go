package handlers

import (
	"time"

	"btohub/internal/config"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
	}
}

// Root handles the root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "BTO Hub API", fiber.Map{
		"service": "btohub",
		"version": "1.0.0",
	})
}

// HealthCheck reports service and database health
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus == "down" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":   dbStatus,
		"uptime":   time.Since(h.startTime).String(),
		"database": dbStatus,
	})
}

// APIInfo describes the API group
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return response.Success(c, "BTO Hub API v1", fiber.Map{
		"endpoints": []string{
			"/auth", "/projects", "/applications", "/registrations", "/enquiries", "/reports",
		},
	})
}
