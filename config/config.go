package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	AppPort       string
	AppName       string
	LogLevel      string
	StorageDriver string // postgres | memory
	CacheDriver   string // redis | memory

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Storage (S3/R2)
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3UseSSL      bool
	S3Region      string
	S3BucketMedia string
	S3BucketAudit string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  string
	JWTRefreshExpiry string

	// Gemini
	GeminiAPIKey    string
	GeminiBaseURL   string
	GeminiModel     string
	GeminiChatModel string

	// Localization
	TranslationTimeout   time.Duration
	TranslationCacheTTL  time.Duration
	TranslationCacheSize int
	WarmupLanguages      []string

	// Notifications
	NotifyWebhookURL string

	// Seed accounts
	SeedAdminEmail      string
	SeedAdminPassword   string
	SeedCreatorEmail    string
	SeedCreatorPassword string
}

var Cfg *Config

func LoadConfig() *Config {
	// Load .env file if it exists (for local non-docker dev)
	_ = godotenv.Load()

	Cfg = &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		AppPort:       getEnv("APP_PORT", "8080"),
		AppName:       getEnv("APP_NAME", "RebaLive API"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StorageDriver: getEnv("STORAGE_DRIVER", "postgres"),
		CacheDriver:   getEnv("CACHE_DRIVER", "redis"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "rebalive"),
		DBPassword: getEnv("DB_PASSWORD", "rebalive"),
		DBName:     getEnv("DB_NAME", "rebalive_db"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		S3Endpoint:    getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:   getEnv("S3_SECRET_KEY", "minioadmin"),
		S3UseSSL:      getEnvAsBool("S3_USE_SSL", false),
		S3Region:      getEnv("S3_REGION", "auto"),
		S3BucketMedia: getEnv("S3_BUCKET_MEDIA", "rebalive-media"),
		S3BucketAudit: getEnv("S3_BUCKET_AUDIT", "rebalive-audit"),

		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		JWTAccessExpiry:  getEnv("JWT_ACCESS_EXPIRY", "24h"),
		JWTRefreshExpiry: getEnv("JWT_REFRESH_EXPIRY", "168h"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiChatModel: getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),

		TranslationTimeout:   getEnvAsDuration("TRANSLATION_TIMEOUT", 15*time.Second),
		TranslationCacheTTL:  getEnvAsDuration("TRANSLATION_CACHE_TTL", 0),
		TranslationCacheSize: getEnvAsInt("TRANSLATION_CACHE_SIZE", 10000),
		WarmupLanguages:      getEnvAsList("WARMUP_LANGUAGES", []string{"en", "fr"}),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),

		SeedAdminEmail:      getEnv("SEED_ADMIN_EMAIL", "admin@rebalive.rw"),
		SeedAdminPassword:   getEnv("SEED_ADMIN_PASSWORD", ""),
		SeedCreatorEmail:    getEnv("SEED_CREATOR_EMAIL", "bruce@music.rw"),
		SeedCreatorPassword: getEnv("SEED_CREATOR_PASSWORD", ""),
	}
	return Cfg
}

// AccessTTL parses JWTAccessExpiry, falling back to 24h.
func (c *Config) AccessTTL() time.Duration {
	return parseDuration(c.JWTAccessExpiry, 24*time.Hour)
}

// RefreshTTL parses JWTRefreshExpiry, falling back to 7 days.
func (c *Config) RefreshTTL() time.Duration {
	return parseDuration(c.JWTRefreshExpiry, 168*time.Hour)
}

func (c *Config) GeminiEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	return parseDuration(getEnv(key, ""), fallback)
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return fallback
}
