package handlers

import fiber "github.com/gofiber/fiber/v2"

// HealthCheck reports that the API server is up
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}
