package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by IdentityContext.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// IdentityContext pulls the caller identity the gateway forwards in headers.
// The engine trusts these values; authentication happens upstream. Requests
// without a valid X-User-ID are rejected before reaching any handler.
func IdentityContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Get("X-User-ID"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "missing or malformed X-User-ID header",
			})
		}
		c.Locals(LocalUserID, id)
		c.Locals(LocalRole, c.Get("X-User-Role", "EMPLOYEE"))
		return c.Next()
	}
}

// UserID reads the authenticated caller id set by IdentityContext.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalUserID).(uuid.UUID)
	return id
}

// Role reads the trusted role set by IdentityContext.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}
