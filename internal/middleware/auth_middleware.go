package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"optistore/internal/model"
	"optistore/internal/service"
)

const (
	localAccountID = "account_id"
	localUsername  = "username"
)

// RequireAuth validates the bearer token against the account's current
// session and stores the caller identity in locals.
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		account, err := authService.ValidateToken(c.UserContext(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSessionReplaced), errors.Is(err, service.ErrAccountInactive):
				return c.Status(401).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(localAccountID, account.ID)
		c.Locals(localUsername, account.Username)
		return c.Next()
	}
}

// CallerFrom returns the identity RequireAuth stored, or the zero Caller on
// unauthenticated routes.
func CallerFrom(c *fiber.Ctx) model.Caller {
	id, _ := c.Locals(localAccountID).(uuid.UUID)
	name, _ := c.Locals(localUsername).(string)
	return model.Caller{AccountID: id, Username: name}
}
