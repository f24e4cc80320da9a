package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/legalaudit/crvc/internal/observability"
	"github.com/legalaudit/crvc/internal/storage"
)

// HealthCheck handles GET /health
func HealthCheck(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"service": "crvc-api",
			"version": "1.0.0",
		})
	}
}

// ReadinessCheck handles GET /ready
func ReadinessCheck(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check job store connection
		if err := store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"error":  "storage unavailable",
			})
		}

		return c.JSON(fiber.Map{
			"status": "ready",
			"service": "crvc-api",
			"version": "1.0.0",
		})
	}
}

// MetricsHandler handles GET /metrics
func MetricsHandler(metrics *observability.Metrics) fiber.Handler {
	return adaptor.HTTPHandler(metrics.Handler())
}
