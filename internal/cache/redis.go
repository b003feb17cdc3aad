// Package cache implements the translation cache on Redis. The cache is an
// optimization, never a correctness dependency: every failure degrades to a
// miss and the caller recomputes from the content store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faqhub/faq-service/internal/faq"
)

// Config holds cache TTLs.
type Config struct {
	EntryTTL time.Duration // per-FAQ entries
	ListTTL  time.Duration // aggregate list entries
}

// DefaultConfig returns the production TTLs: 10 minutes per entry, 15
// minutes per list.
func DefaultConfig() Config {
	return Config{
		EntryTTL: 10 * time.Minute,
		ListTTL:  15 * time.Minute,
	}
}

// RedisCache stores translated FAQ views in Redis with TTL expiry.
type RedisCache struct {
	client   *redis.Client
	entryTTL time.Duration
	listTTL  time.Duration
	logger   *slog.Logger
}

// NewRedisCache creates a RedisCache around an existing client.
func NewRedisCache(client *redis.Client, cfg Config, logger *slog.Logger) *RedisCache {
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = DefaultConfig().EntryTTL
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = DefaultConfig().ListTTL
	}

	return &RedisCache{
		client:   client,
		entryTTL: cfg.EntryTTL,
		listTTL:  cfg.ListTTL,
		logger:   logger,
	}
}

// GetEntry retrieves the cached view for one FAQ in one language. Any
// failure, including an unreachable Redis, reads as a miss.
func (c *RedisCache) GetEntry(ctx context.Context, faqID, lang string) (*faq.TranslatedFAQ, bool) {
	key := EntryKey(faqID, lang)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed, treating as miss",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	var view faq.TranslatedFAQ
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.Warn("Cache entry unreadable, treating as miss",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, false
	}

	return &view, true
}

// SetEntry stores the view for one FAQ in one language with the entry TTL.
func (c *RedisCache) SetEntry(ctx context.Context, lang string, view faq.TranslatedFAQ) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	key := EntryKey(view.ID, lang)
	if err := c.client.Set(ctx, key, data, c.entryTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry %s: %w", key, err)
	}

	return nil
}

// GetList retrieves the cached aggregate list for one language.
func (c *RedisCache) GetList(ctx context.Context, lang string) ([]faq.TranslatedFAQ, bool) {
	key := ListKey(lang)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed, treating as miss",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	var views []faq.TranslatedFAQ
	if err := json.Unmarshal(data, &views); err != nil {
		c.logger.Warn("Cache entry unreadable, treating as miss",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, false
	}

	return views, true
}

// SetList stores the aggregate list for one language with the list TTL.
func (c *RedisCache) SetList(ctx context.Context, lang string, views []faq.TranslatedFAQ) error {
	data, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("failed to marshal cache list: %w", err)
	}

	key := ListKey(lang)
	if err := c.client.Set(ctx, key, data, c.listTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache list %s: %w", key, err)
	}

	return nil
}

// DeleteKeys removes the given keys in one logical operation.
func (c *RedisCache) DeleteKeys(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	return nil
}
