package handler

import (
	"log/slog"
	"net/http"
	"time"

	"foodfinder/internal/microservices/http-api/middleware"
	"foodfinder/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Catalog     service.CatalogService
	Ratings     service.RatingService
	Feed        gin.HandlerFunc
	VoteLimiter *middleware.IPRateLimiter
	CORSOrigins []string

	// TrustedProxies may set X-Forwarded-For; nil trusts none, so ClientIP is the peer address.
	TrustedProxies []string
	Timeout        time.Duration
	Logger         *slog.Logger
}

// NewRouter assembles the HTTP surface consumed by the mobile client.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		cfg.Logger.Warn("Invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive"})
	})
	if cfg.Feed != nil {
		r.GET("/ws", cfg.Feed)
	}

	writeLimit := func(c *gin.Context) { c.Next() }
	if cfg.VoteLimiter != nil {
		writeLimit = middleware.RateLimit(cfg.VoteLimiter)
	}

	NewRatingHandler(cfg.Ratings, cfg.Timeout).RegisterRoutes(r, writeLimit)
	NewMenuHandler(cfg.Catalog, cfg.Timeout).RegisterRoutes(r)
	return r
}
