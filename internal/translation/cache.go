package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

// ErrUncacheable rejects failed translations; caching one would mask every
// later retry for that key.
var ErrUncacheable = errors.New("translation: refusing to cache a failed translation")

// Cache stores translations per (content id, language).
type Cache interface {
	Get(ctx context.Context, contentID string, lang models.LanguageCode) (models.ContentTranslation, bool, error)
	Put(ctx context.Context, contentID string, lang models.LanguageCode, t models.ContentTranslation) error
}

func cacheKey(contentID string, lang models.LanguageCode) string {
	return fmt.Sprintf("translation:%s:%s", contentID, lang)
}

// RedisCache keeps translations as JSON strings. A zero ttl never expires.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, contentID string, lang models.LanguageCode) (models.ContentTranslation, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(contentID, lang)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ContentTranslation{}, false, nil
	}
	if err != nil {
		return models.ContentTranslation{}, false, fmt.Errorf("translation cache get: %w", err)
	}
	var t models.ContentTranslation
	if err := json.Unmarshal(raw, &t); err != nil {
		return models.ContentTranslation{}, false, fmt.Errorf("translation cache decode: %w", err)
	}
	return t, true, nil
}

func (c *RedisCache) Put(ctx context.Context, contentID string, lang models.LanguageCode, t models.ContentTranslation) error {
	if t.TranslationError {
		return ErrUncacheable
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("translation cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(contentID, lang), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("translation cache set: %w", err)
	}
	return nil
}

// DefaultMemoryCacheSize bounds a MemoryCache built with maxEntries <= 0.
const DefaultMemoryCacheSize = 10000

// MemoryCache is an in-process LRU.
type MemoryCache struct {
	entries *lru.Cache[string, models.ContentTranslation]
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryCacheSize
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, models.ContentTranslation](maxEntries)
	return &MemoryCache{entries: entries}
}

func (c *MemoryCache) Get(_ context.Context, contentID string, lang models.LanguageCode) (models.ContentTranslation, bool, error) {
	t, ok := c.entries.Get(cacheKey(contentID, lang))
	return t, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, contentID string, lang models.LanguageCode, t models.ContentTranslation) error {
	if t.TranslationError {
		return ErrUncacheable
	}
	c.entries.Add(cacheKey(contentID, lang), t)
	return nil
}

func (c *MemoryCache) Len() int {
	return c.entries.Len()
}
