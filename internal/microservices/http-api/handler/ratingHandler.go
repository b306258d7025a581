package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"foodfinder/internal/microservices/http-api/dto"
	"foodfinder/internal/microservices/http-api/models"
	"foodfinder/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
	timeout       time.Duration
}

func NewRatingHandler(ratingService service.RatingService, timeout time.Duration) *RatingHandler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &RatingHandler{
		ratingService: ratingService,
		timeout:       timeout,
	}
}

// RegisterRoutes registers rating-related routes. writeLimit guards every write route.
func (h *RatingHandler) RegisterRoutes(r gin.IRouter, writeLimit gin.HandlerFunc) {
	r.POST("/foodratings", writeLimit, h.CreateFoodRating)
	r.GET("/foodratings", h.ListFoodRatings)

	r.POST("/:hall", writeLimit, h.CreateHallRating)
	r.PUT("/:hall/:id", writeLimit, h.Overwrite)
	r.POST("/:hall/:id/upvote", writeLimit, h.Upvote)
	r.POST("/:hall/:id/downvote", writeLimit, h.Downvote)
	r.GET("/:hall/:id/tally", h.GetTally)
	r.POST("/:hall/:id/stars", writeLimit, h.RateStars)
	r.GET("/:hall/:id/stars", h.GetStars)
}

// Overwrite applies the client-computed absolute counts from a full item record.
// PUT /:hall/:id
func (h *RatingHandler) Overwrite(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	var req dto.UpdateItemDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID != nil && *req.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body id does not match path id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	item, err := h.ratingService.OverwriteTally(ctx, c.Param("hall"), id, *req.Upvotes, *req.Downvotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// POST /:hall/:id/upvote
func (h *RatingHandler) Upvote(c *gin.Context) {
	h.vote(c, models.VoteUp)
}

// POST /:hall/:id/downvote
func (h *RatingHandler) Downvote(c *gin.Context) {
	h.vote(c, models.VoteDown)
}

func (h *RatingHandler) vote(c *gin.Context, dir models.VoteDirection) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	item, err := h.ratingService.Vote(ctx, c.Param("hall"), id, dir)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetTally reports a zero tally for ids that were never voted on.
// GET /:hall/:id/tally
func (h *RatingHandler) GetTally(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	tally, err := h.ratingService.GetTally(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// CreateHallRating logs a rating event named after the menu item.
// POST /:hall
func (h *RatingHandler) CreateHallRating(c *gin.Context) {
	if _, ok := models.ParseDiningHall(c.Param("hall")); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown dining hall"})
		return
	}

	var req dto.CreateHallRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.recordEvent(c, req.MenuItemName, *req.Upvotes, *req.Downvotes)
}

// POST /foodratings
func (h *RatingHandler) CreateFoodRating(c *gin.Context) {
	var req dto.CreateFoodRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.recordEvent(c, req.ItemName, *req.Upvotes, *req.Downvotes)
}

func (h *RatingHandler) recordEvent(c *gin.Context, itemName string, upvotes, downvotes int64) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	event, err := h.ratingService.RecordEvent(ctx, itemName, upvotes, downvotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// ListFoodRatings lists rating events, newest first.
// GET /foodratings?item_name=Pizza&limit=50
func (h *RatingHandler) ListFoodRatings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	events, err := h.ratingService.ListEvents(ctx, c.Query("item_name"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// POST /:hall/:id/stars
func (h *RatingHandler) RateStars(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	var req dto.CreateStarRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	rating, err := h.ratingService.RateStars(ctx, c.Param("hall"), id, req.GivenStars)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GET /:hall/:id/stars
func (h *RatingHandler) GetStars(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	rating, err := h.ratingService.GetStars(ctx, c.Param("hall"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
