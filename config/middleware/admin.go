package middleware

import (
	"github.com/gofiber/fiber/v2"

	"qr-attendance-backend/models"
	"qr-attendance-backend/pkg/paseto"
)

// AdminMiddleware is the single privileged-role check: only the admin account
// may issue QR codes, manage the roster, export reports or purge data.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(*paseto.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated or corrupted session data"})
		}

		if claims.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied, admin privileges required"})
		}

		return c.Next()
	}
}
