package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/config"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/users"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/utils"
)

type AuthHandler struct {
	cfg   *config.Config
	users *users.Service
}

func NewAuthHandler(cfg *config.Config, users *users.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: users}
}

func (h *AuthHandler) issue(c *fiber.Ctx, status int, user models.User) error {
	tokens, err := utils.CreateToken(user.ID, string(user.Role), h.cfg.JWTSecret, h.cfg.AccessTTL(), h.cfg.RefreshTTL())
	if err != nil {
		requestLogger(c).Error("could not generate tokens", zap.String("user_id", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate tokens"})
	}
	return c.Status(status).JSON(fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.ExpiresAt,
		"user":          user,
	})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req users.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	user, err := h.users.Signup(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Signup failed", err)
	}
	requestLogger(c).Info("new account", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return h.issue(c, fiber.StatusCreated, user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	user, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, "Login failed", err)
	}
	return h.issue(c, fiber.StatusOK, user)
}

// RefreshToken trades a refresh token for a new pair. The account is
// re-checked so suspension takes effect at refresh time too.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	claims, err := utils.ParseToken(req.RefreshToken, h.cfg.JWTSecret, utils.TokenTypeRefresh)
	if err != nil {
		return respondError(c, "Invalid refresh token", err)
	}
	user, err := h.users.Authenticate(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, "Invalid refresh token", err)
	}
	return h.issue(c, fiber.StatusOK, user)
}
