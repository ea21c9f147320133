package database

import (
	"context"
	"fmt"
	"time"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var RedisClient *redis.Client

// ConnectRedis creates the shared Redis client and pings it once.
func ConnectRedis(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("connected to redis",
		zap.String("host", cfg.RedisHost), zap.String("port", cfg.RedisPort), zap.Int("db", cfg.RedisDB))
	RedisClient = client
	return client, nil
}
