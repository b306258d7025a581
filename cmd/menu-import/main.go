package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"foodfinder/database"
	"foodfinder/internal/config"
	"foodfinder/internal/ingestion/menuimport"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	feed := flag.String("feed", cfg.MenuFeed, "menu feed file path or http(s) URL")
	schedule := flag.String("cron", cfg.MenuImportCron, "cron schedule; empty runs once")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.TallyBackend == config.BackendMemory {
		log.Fatal("menu-import needs a persistent store; TALLY_BACKEND=memory keeps nothing")
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := database.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open stores", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	imp := menuimport.NewImporter(stores.Catalog, logger, menuimport.WithWorkers(cfg.MenuImportWorkers))

	if *schedule == "" {
		report, err := imp.Run(ctx, *feed)
		if err != nil {
			logger.Error("Menu import failed", "error", err, "imported", report.Imported, "failed", report.Failed)
			stores.Close()
			os.Exit(1)
		}
		return
	}

	err = menuimport.RunScheduled(ctx, *schedule, logger, func(ctx context.Context) {
		if _, err := imp.Run(ctx, *feed); err != nil {
			logger.Error("Scheduled menu import failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("Scheduler failed", "error", err)
		os.Exit(1)
	}
}
