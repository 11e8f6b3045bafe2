package middleware

import (
	"go-formhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates JWT tokens and injects user claims into context
func AuthMiddleware(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			// Inject dummy context for dev
			dummyClaims := &utils.UserClaims{
				UserID: "dev-admin-id",
				Role:   "admin",
			}
			c.Locals(utils.UserClaimsKey, dummyClaims)
			c.Locals("userID", dummyClaims.UserID)
			c.Locals("role", dummyClaims.Role)
			return c.Next()
		}

		claims, err := claimsFromHeader(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals(utils.UserClaimsKey, claims)
		c.Locals("userID", claims.UserID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// OptionalAuthMiddleware injects claims when a valid token is present but
// never rejects the request. Submission endpoints use it: forms may allow
// anonymous submitters, and the acceptance gate decides whether login is
// actually required.
func OptionalAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := claimsFromHeader(c); err == nil {
			c.Locals(utils.UserClaimsKey, claims)
			c.Locals("userID", claims.UserID)
			c.Locals("role", claims.Role)
		}
		return c.Next()
	}
}

func claimsFromHeader(c *fiber.Ctx) (*utils.UserClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	// Extract token from "Bearer <token>"
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	claims, err := utils.ValidateToken(authHeader[7:])
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	return claims, nil
}
