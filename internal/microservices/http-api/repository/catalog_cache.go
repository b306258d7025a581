package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"foodfinder/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

// cacheOpTimeout bounds every Redis call so a hung cache leaves the request's budget to the
// wrapped repository.
const cacheOpTimeout = 250 * time.Millisecond

// CachedCatalog serves hall listings from Redis and falls back to the wrapped repository.
// Cache failures are logged and never fail a read. A non-positive ttl disables caching.
type CachedCatalog struct {
	next   CatalogRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCatalog(next CatalogRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedCatalog{next: next, client: client, ttl: ttl, logger: logger}
}

func catalogKey(hall models.DiningHall) string {
	return fmt.Sprintf("catalog:hall:%s", hall)
}

func (c *CachedCatalog) ListByHall(ctx context.Context, hall models.DiningHall) ([]models.MenuItem, error) {
	if c.ttl <= 0 {
		return c.next.ListByHall(ctx, hall)
	}

	key := catalogKey(hall)
	getCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	cached, err := c.client.Get(getCtx, key).Bytes()
	cancel()
	switch {
	case err == nil:
		var items []models.MenuItem
		if err := json.Unmarshal(cached, &items); err == nil {
			return items, nil
		}
		c.logger.Warn("catalog_cache_corrupt", "hall", hall)
	case err != redis.Nil:
		c.logger.Warn("catalog_cache_read_failed", "hall", hall, "error", err)
	}

	items, err := c.next.ListByHall(ctx, hall)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(items); err == nil {
		setCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
		err := c.client.Set(setCtx, key, data, c.ttl).Err()
		cancel()
		if err != nil {
			c.logger.Warn("catalog_cache_write_failed", "hall", hall, "error", err)
		}
	}
	return items, nil
}

func (c *CachedCatalog) GetByID(ctx context.Context, hall models.DiningHall, id int64) (*models.MenuItem, error) {
	return c.next.GetByID(ctx, hall, id)
}

// Upsert writes through and drops the listings of every hall touched.
func (c *CachedCatalog) Upsert(ctx context.Context, items []models.MenuItem) error {
	if err := c.next.Upsert(ctx, items); err != nil {
		return err
	}
	return c.Invalidate(ctx, HallsOf(items)...)
}

func (c *CachedCatalog) Invalidate(ctx context.Context, halls ...models.DiningHall) error {
	if len(halls) == 0 {
		return nil
	}
	keys := make([]string, 0, len(halls))
	for _, h := range halls {
		keys = append(keys, catalogKey(h))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}
