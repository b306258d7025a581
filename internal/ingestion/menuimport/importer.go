package menuimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"foodfinder/internal/microservices/http-api/models"
	"foodfinder/internal/microservices/http-api/repository"
)

const defaultBatchSize = 50

// Importer loads the menu feed into the catalog. Invalid records are skipped and reported;
// valid ones are upserted in batches through a worker pool.
type Importer struct {
	catalog   repository.CatalogRepository
	loader    *FeedLoader
	workers   int
	batchSize int
	logger    *slog.Logger
}

type Option func(*Importer)

func WithWorkers(n int) Option {
	return func(i *Importer) { i.workers = n }
}

func WithBatchSize(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

func WithLoader(l *FeedLoader) Option {
	return func(i *Importer) { i.loader = l }
}

func NewImporter(catalog repository.CatalogRepository, logger *slog.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	imp := &Importer{
		catalog:   catalog,
		loader:    NewFeedLoader(),
		workers:   4,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Run imports the feed at source once.
func (imp *Importer) Run(ctx context.Context, source string) (Report, error) {
	start := time.Now()
	feed, err := imp.loader.Load(ctx, source)
	if err != nil {
		return Report{}, err
	}

	report := Report{Total: len(feed)}
	valid := make([]models.MenuItem, 0, len(feed))
	seen := make(map[int64]struct{}, len(feed))
	for i := range feed {
		if err := feed[i].Validate(); err != nil {
			report.Skipped++
			imp.logger.Warn("menu_item_invalid", "index", i, "id", feed[i].ID, "error", err)
			continue
		}
		if _, dup := seen[feed[i].ID]; dup {
			report.Skipped++
			imp.logger.Warn("menu_item_duplicate", "index", i, "id", feed[i].ID)
			continue
		}
		seen[feed[i].ID] = struct{}{}
		valid = append(valid, feed[i].ToModel())
	}

	imported, err := imp.upsert(ctx, valid)
	report.Imported = imported
	report.Failed = len(valid) - imported

	imp.logger.Info("menu_import_finished",
		"source", source,
		"total", report.Total,
		"imported", report.Imported,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", time.Since(start),
	)
	return report, err
}

func (imp *Importer) upsert(ctx context.Context, items []models.MenuItem) (int, error) {
	pool := NewWorkerPool(ctx, imp.workers, imp.logger)
	pool.Start()

	var (
		mu       sync.Mutex
		imported int
		errs     []error
	)
	for start := 0; start < len(items); start += imp.batchSize {
		end := min(start+imp.batchSize, len(items))
		batch := items[start:end]
		ok := pool.Submit(func(ctx context.Context) error {
			if err := imp.catalog.Upsert(ctx, batch); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("upsert ids %d..%d: %w", batch[0].ID, batch[len(batch)-1].ID, err))
				mu.Unlock()
				return err
			}
			mu.Lock()
			imported += len(batch)
			mu.Unlock()
			return nil
		})
		if !ok {
			break
		}
	}
	if ctx.Err() != nil {
		// queued batches are abandoned, not drained
		pool.Shutdown()
	} else {
		pool.Wait()
	}

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return imported, errors.Join(errs...)
}
