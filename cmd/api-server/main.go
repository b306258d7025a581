package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodfinder/database"
	"foodfinder/internal/config"
	"foodfinder/internal/ingestion/menuimport"
	"foodfinder/internal/microservices/http-api/handler"
	"foodfinder/internal/microservices/http-api/middleware"
	"foodfinder/internal/microservices/http-api/service"
	"foodfinder/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := cfg.NewLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := database.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open stores", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	// the memory backend starts empty, so seed it from the feed
	if cfg.TallyBackend == config.BackendMemory && cfg.MenuFeed != "" {
		imp := menuimport.NewImporter(stores.Catalog, logger, menuimport.WithWorkers(cfg.MenuImportWorkers))
		if _, err := imp.Run(ctx, cfg.MenuFeed); err != nil {
			logger.Warn("Menu seed failed", "feed", cfg.MenuFeed, "error", err)
		}
	}

	// the feed outlives the signal ctx so in-flight votes can still publish during Shutdown
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(logger)
	go hub.Run(hubCtx)

	limiter := middleware.NewIPRateLimiter(cfg.VoteRateLimit, cfg.VoteRateBurst)
	go limiter.StartJanitor(ctx, time.Minute)

	router := handler.NewRouter(handler.RouterConfig{
		Catalog:        service.NewCatalogService(stores.Catalog, stores.Tallies),
		Ratings:        service.NewRatingService(stores.Catalog, stores.Tallies, stores.Events, stores.Stars, hub, logger),
		Feed:           websocket.NewHandler(hub, logger).ServeWS,
		VoteLimiter:    limiter,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Timeout:        cfg.RequestTimeout,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server running", "addr", srv.Addr, "env", cfg.GoEnv, "tally_backend", cfg.TallyBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	stopHub()
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
	}
	logger.Info("Server stopped")
}
