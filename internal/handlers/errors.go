package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/audit"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/content"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/users"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/utils"
)

const loggerKey = "logger"

// UseLogger hands log to every handler behind it.
func UseLogger(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		c.Locals(loggerKey, log)
		return c.Next()
	}
}

func requestLogger(c *fiber.Ctx) *zap.Logger {
	if log, ok := c.Locals(loggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, users.ErrInvalidCredentials),
		errors.Is(err, users.ErrSuspended),
		errors.Is(err, utils.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, repository.ErrInsufficientCredits):
		return fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return fiber.StatusConflict
	case errors.Is(err, content.ErrNotPurchasable):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, content.ErrUploadUnavailable), errors.Is(err, audit.ErrExportUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// respondError writes {"error","details"}. Internal errors keep their
// details out of the response.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		requestLogger(c).Error(message,
			zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   message,
		"details": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}
