package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"foodfinder/internal/microservices/http-api/repository"
	"foodfinder/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const defaultTimeout = 5 * time.Second

// respondError maps service/repository errors onto status codes.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
	case errors.Is(err, service.ErrUnknownHall):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown dining hall"})
	case errors.Is(err, repository.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rating store unavailable, try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseItemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}
