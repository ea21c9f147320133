package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/config"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/handlers"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/middleware"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/queue"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/assistant"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/audit"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/content"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/moderation"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/users"
)

// Deps is everything the HTTP layer talks to.
type Deps struct {
	Config     *config.Config
	Users      *users.Service
	Content    *content.Service
	Moderation *moderation.Service
	Audit      *audit.Service
	Assistant  *assistant.Service
	Contents   handlers.ContentLister
	Logs       handlers.LogCounter
	Bus        queue.Bus
	Warmup     queue.WarmupQueue
	Logger     *zap.Logger
}

func SetupRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api/v1", handlers.UseLogger(d.Logger))

	// Health Check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "message": d.Config.AppName + " is running 🎬"})
	})

	// Public routes
	authHandler := handlers.NewAuthHandler(d.Config, d.Users)
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.RefreshToken)
	api.Get("/labels/:key", handlers.GetLabel)

	// WebSocket (handles auth through ?token=)
	live := handlers.NewLiveHandler(d.Bus, d.Config.JWTSecret, d.Users, d.Logger)
	api.Get("/ws/moderation", live.Upgrade, websocket.New(live.Stream))

	// Protected routes (require authentication)
	protected := api.Group("", middleware.AuthMiddleware(d.Config.JWTSecret, d.Users))

	// User Profile
	userHandler := handlers.NewUserHandler(d.Users)
	protected.Get("/users/me", userHandler.GetMe)
	protected.Put("/users/me/language", userHandler.UpdateLanguage)

	// Content
	contentHandler := handlers.NewContentHandler(d.Content)
	protected.Get("/content", contentHandler.ListContent)
	protected.Post("/content", contentHandler.UploadContent)
	protected.Get("/content/upload-url", contentHandler.GetUploadURL)
	protected.Get("/content/:id", contentHandler.GetContent)
	protected.Get("/content/:id/localized", contentHandler.GetLocalized)
	protected.Post("/content/:id/purchase", contentHandler.Purchase)

	// Assistant
	assistantHandler := handlers.NewAssistantHandler(d.Assistant)
	protected.Post("/assistant/help", assistantHandler.Help)

	// Admin routes
	admin := protected.Group("/admin", middleware.AdminOnly())

	moderationHandler := handlers.NewModerationHandler(d.Moderation, d.Audit)
	admin.Get("/moderation/queue", moderationHandler.GetQueue)
	admin.Post("/moderation/:id/approve", moderationHandler.Approve())
	admin.Post("/moderation/:id/reject", moderationHandler.Reject())
	admin.Post("/moderation/:id/flag", moderationHandler.Flag())
	admin.Post("/moderation/:id/warn", moderationHandler.Warn())
	admin.Get("/moderation/logs", moderationHandler.GetLogs)
	admin.Post("/moderation/logs/export", moderationHandler.ExportLogs)

	admin.Get("/users", userHandler.GetAllUsers)
	admin.Post("/users/:id/suspension", userHandler.ToggleSuspension)

	adminHandler := handlers.NewAdminHandler(d.Contents, d.Logs, d.Warmup)
	admin.Get("/queue-stats", adminHandler.GetQueueStats)
}
