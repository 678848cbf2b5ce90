// Package middleware provides HTTP middleware for the API
package middleware

import (
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vectorops/dbdock/internal/types"
)

// AuthRequired rejects requests without a bearer token. The token is only
// checked for presence; verification is delegated to the identity provider
// in front of this service.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrInvalidInput("Authentication required"))
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrInvalidInput("Authentication required"))
		}
		return c.Next()
	}
}
