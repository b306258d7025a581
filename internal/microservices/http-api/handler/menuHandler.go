package handler

import (
	"context"
	"net/http"
	"time"

	"foodfinder/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	svc     service.CatalogService
	timeout time.Duration
}

func NewMenuHandler(svc service.CatalogService, timeout time.Duration) *MenuHandler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &MenuHandler{svc: svc, timeout: timeout}
}

func (h *MenuHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/:hall", h.List)
	r.GET("/:hall/grouped", h.Grouped)
	r.GET("/:hall/:id", h.Get)
}

// List returns the hall's items with their tallies as a bare JSON array.
// GET /:hall
func (h *MenuHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	items, err := h.svc.ListMenu(ctx, c.Param("hall"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Grouped returns the meal type -> course -> items view.
// GET /:hall/grouped
func (h *MenuHandler) Grouped(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	grouped, err := h.svc.GroupedMenu(ctx, c.Param("hall"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

// GET /:hall/:id
func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	item, err := h.svc.GetItem(ctx, c.Param("hall"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
