package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware checks if the user has the admin role
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Set by AuthMiddleware
		userID := c.Locals("userID")
		if userID == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		role, ok := c.Locals("role").(string)
		if !ok || strings.ToLower(role) != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: Admin role required",
			})
		}

		return c.Next()
	}
}
