package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/utils"
)

const secret = "test-secret"

type stubUsers map[string]models.User

func (s stubUsers) Authenticate(_ context.Context, id string) (models.User, error) {
	u, ok := s[id]
	if !ok {
		return models.User{}, services.ErrUnauthorized
	}
	return u, nil
}

func newApp(users Authenticator) *fiber.App {
	app := fiber.New()
	protected := app.Group("", AuthMiddleware(secret, users))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": CurrentUser(c).ID})
	})
	protected.Get("/admin", AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	pair, err := utils.CreateToken(userID, "", secret, time.Hour, time.Hour)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func TestAuthMiddleware(t *testing.T) {
	users := stubUsers{
		"u1": {ID: "u1", Role: models.RoleUser},
		"a1": {ID: "a1", Role: models.RoleAdmin},
	}
	app := newApp(users)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", fiber.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", fiber.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", fiber.StatusUnauthorized},
		{"unknown user", "/me", bearer(t, "ghost"), fiber.StatusUnauthorized},
		{"valid", "/me", bearer(t, "u1"), fiber.StatusOK},
		{"user on admin route", "/admin", bearer(t, "u1"), fiber.StatusForbidden},
		{"admin on admin route", "/admin", bearer(t, "a1"), fiber.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
