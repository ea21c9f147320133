package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/policy"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/utils"
)

// UserKey is the fiber Locals key holding the authenticated *models.User.
const UserKey = "user"

// Authenticator resolves a token subject to an active account.
type Authenticator interface {
	Authenticate(ctx context.Context, id string) (models.User, error)
}

// ResolveUser validates a raw access token and loads its user.
func ResolveUser(ctx context.Context, raw, secret string, users Authenticator) (*models.User, error) {
	claims, err := utils.ParseToken(raw, secret, utils.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	user, err := users.Authenticate(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
// Suspended accounts are turned away on every request, not just at login.
func AuthMiddleware(secret string, users Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Missing or malformed Authorization header",
				"details": "Expected format: Authorization: Bearer <token>",
			})
		}

		user, err := ResolveUser(c.UserContext(), parts[1], secret, users)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"details": err.Error(),
			})
		}
		c.Locals(UserKey, user)
		return c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !policy.CanModerate(CurrentUser(c)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
