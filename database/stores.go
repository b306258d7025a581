package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"foodfinder/internal/config"
	"foodfinder/internal/microservices/http-api/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Stores bundles the repositories selected by TALLY_BACKEND.
type Stores struct {
	Catalog repository.CatalogRepository
	Tallies repository.TallyRepository
	Events  repository.EventRepository
	Stars   repository.StarRepository

	// Cache is nil when the Redis listing cache is disabled or unreachable.
	Cache *repository.CachedCatalog

	db    *gorm.DB
	redis *redis.Client
}

// OpenStores connects the configured backends. Postgres always holds the catalog, events and
// stars unless the memory backend is chosen; Redis holds tallies for TALLY_BACKEND=redis and
// optionally caches hall listings.
func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	if cfg.TallyBackend == config.BackendMemory {
		logger.Warn("Using in-memory stores; data is lost on restart")
		return &Stores{
			Catalog: repository.NewMemoryCatalog(),
			Tallies: repository.NewMemoryTallyRepo(),
			Events:  repository.NewMemoryEventRepo(),
			Stars:   repository.NewMemoryStarRepo(),
		}, nil
	}

	db, err := OpenGorm(cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &Stores{
		Catalog: repository.NewCatalogRepository(db),
		Tallies: repository.NewTallyRepository(db),
		Events:  repository.NewEventRepository(db),
		Stars:   repository.NewStarRepository(db),
		db:      db,
	}

	needRedis := cfg.TallyBackend == config.BackendRedis
	if needRedis || cfg.CatalogCache {
		rdb, err := repository.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		switch {
		case err != nil && needRedis:
			s.Close()
			return nil, fmt.Errorf("redis tally backend: %w", err)
		case err != nil:
			logger.Warn("Redis unreachable, catalog cache disabled", "error", err)
		default:
			s.redis = rdb
			logger.Info("Connected to Redis", "url", cfg.RedisURL)
		}
	}

	if s.redis != nil {
		if needRedis {
			s.Tallies = repository.NewRedisTallyRepo(s.redis)
		}
		if cfg.CatalogCache {
			s.Cache = repository.NewCachedCatalog(s.Catalog, s.redis, cfg.CacheDuration(), logger)
			s.Catalog = s.Cache
		}
	}

	logger.Info("Stores ready", "tally_backend", cfg.TallyBackend, "catalog_cache", s.Cache != nil)
	return s, nil
}

func (s *Stores) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.db != nil {
		errs = append(errs, Close(s.db))
	}
	return errors.Join(errs...)
}
