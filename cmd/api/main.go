package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/config"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/database"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/gemini"
	applog "github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/logger"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/queue"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/routes"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/assistant"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/audit"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/content"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/moderation"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/notifications"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/users"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/warmup"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/translation"
)

type contentStore interface {
	content.Store
	moderation.Store
}

type userStore interface {
	users.Store
	content.Wallet
}

func main() {
	// 1. Load Configuration
	cfg := config.LoadConfig()

	zlog, err := applog.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	var (
		contents contentStore
		logs     audit.LogStore
		accounts userStore
	)
	switch cfg.StorageDriver {
	case "memory":
		store := repository.NewMemoryStore()
		contents, logs, accounts = store.Contents(), store.Logs(), store.Users()
		zlog.Warn("using in-memory storage; data is lost on restart")
	default:
		db, err := database.ConnectDB(cfg, zlog)
		if err != nil {
			zlog.Fatal("database connection failed", zap.Error(err))
		}
		contents = repository.NewContentRepository(db)
		logs = repository.NewModerationLogRepository(db)
		accounts = repository.NewUserRepository(db)
	}

	// 3. Cache, events and warm-up queue
	var (
		cache translation.Cache
		bus   queue.Bus
		jobs  queue.WarmupQueue
	)
	switch cfg.CacheDriver {
	case "memory":
		cache = translation.NewMemoryCache(cfg.TranslationCacheSize)
		bus = queue.NewMemoryBus(zlog.Named("events"))
		jobs = queue.NewMemoryWarmupQueue(0)
	default:
		rdb, err := database.ConnectRedis(cfg, zlog)
		if err != nil {
			zlog.Fatal("redis connection failed", zap.Error(err))
		}
		defer rdb.Close()
		cache = translation.NewRedisCache(rdb, cfg.TranslationCacheTTL)
		bus = queue.NewRedisBus(rdb, zlog.Named("events"))
		jobs = queue.NewRedisWarmupQueue(rdb)
	}

	// 4. Object storage (optional: uploads and audit export degrade to 503)
	var (
		presigner content.Presigner
		objects   audit.ObjectPutter
	)
	if cfg.S3Endpoint != "" {
		store, err := database.ConnectS3(cfg, zlog)
		if err != nil {
			zlog.Warn("object storage unavailable", zap.Error(err))
		} else {
			presigner, objects = store, store
		}
	}

	// 5. AI
	ai := gemini.NewClient(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
	})
	if !cfg.GeminiEnabled() {
		zlog.Warn("GEMINI_API_KEY not set; translations fall back to original text")
	}
	engine := translation.NewEngine(cache, translation.NewGeminiTranslator(ai), cfg.TranslationTimeout, zlog.Named("translation"))

	// 6. Services
	userSvc := users.NewService(accounts, zlog.Named("users"))
	seedCtx, cancelSeed := context.WithTimeout(ctx, 30*time.Second)
	if err := userSvc.Seed(seedCtx,
		users.SeedAccount{Name: "RebaLive Admin", Email: cfg.SeedAdminEmail, Password: cfg.SeedAdminPassword, Role: models.RoleAdmin,
			Credits: 1000000, Subscription: models.SubscriptionVIP},
		users.SeedAccount{Name: "Bruce Melodie", Email: cfg.SeedCreatorEmail, Password: cfg.SeedCreatorPassword, Role: models.RoleCreator,
			Language: models.LanguageKinyarwanda, Credits: 50000, Subscription: models.SubscriptionPremium},
	); err != nil {
		zlog.Error("seeding accounts failed", zap.Error(err))
	}
	cancelSeed()

	contentSvc := content.NewService(content.Options{
		Store:       contents,
		Localizer:   engine,
		Wallet:      accounts,
		Presigner:   presigner,
		MediaBucket: cfg.S3BucketMedia,
		Logger:      zlog.Named("content"),
	})
	moderationSvc := moderation.NewService(contents, bus, zlog.Named("moderation"))
	auditSvc := audit.NewService(logs, objects, cfg.S3BucketAudit, zlog.Named("audit"))
	assistantSvc := assistant.NewService(ai, cfg.GeminiChatModel, zlog.Named("assistant"))

	// 7. Background workers
	var warmLangs []models.LanguageCode
	for _, raw := range cfg.WarmupLanguages {
		lang, err := models.ParseLanguage(raw)
		if err != nil {
			zlog.Warn("ignoring warm-up language", zap.String("lang", raw), zap.Error(err))
			continue
		}
		warmLangs = append(warmLangs, lang)
	}
	subscriber := notifications.NewSubscriber(notifications.SubscriberOptions{
		Bus:       bus,
		Notifier:  notifications.NewService(cfg.NotifyWebhookURL),
		Warmup:    jobs,
		Languages: warmLangs,
		Logger:    zlog.Named("notifications"),
	})
	go func() {
		if err := subscriber.Run(ctx); err != nil {
			zlog.Error("moderation subscriber stopped", zap.Error(err))
		}
	}()
	worker := warmup.NewWorker(jobs, contents, engine, zlog.Named("warmup"))
	go func() {
		if err := worker.Run(ctx); err != nil {
			zlog.Error("warm-up worker stopped", zap.Error(err))
		}
	}()

	// 8. Initialize Fiber App
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: "RebaLive",
		Prefork:      false,
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization",
		AllowMethods: "GET, POST, HEAD, PUT, DELETE, PATCH",
	}))

	// 9. Routes
	routes.SetupRoutes(app, routes.Deps{
		Config:     cfg,
		Users:      userSvc,
		Content:    contentSvc,
		Moderation: moderationSvc,
		Audit:      auditSvc,
		Assistant:  assistantSvc,
		Contents:   contents,
		Logs:       logs,
		Bus:        bus,
		Warmup:     jobs,
		Logger:     zlog.Named("http"),
	})

	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	// 10. Start Server
	zlog.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zlog.Fatal("server failed to start", zap.Error(err))
	}
}
