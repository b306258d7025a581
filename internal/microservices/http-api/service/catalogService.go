package service

import (
	"context"
	"errors"
	"fmt"

	"foodfinder/internal/microservices/http-api/dto"
	"foodfinder/internal/microservices/http-api/models"
	"foodfinder/internal/microservices/http-api/repository"
)

var ErrUnknownHall = errors.New("unknown dining hall")

type CatalogService interface {
	ListMenu(ctx context.Context, hall string) ([]dto.MenuItemResponse, error)
	GroupedMenu(ctx context.Context, hall string) (*dto.GroupedMenuResponse, error)
	GetItem(ctx context.Context, hall string, id int64) (*dto.MenuItemResponse, error)
}

type catalogService struct {
	catalog repository.CatalogRepository
	tallies repository.TallyRepository
}

func NewCatalogService(catalog repository.CatalogRepository, tallies repository.TallyRepository) CatalogService {
	return &catalogService{catalog: catalog, tallies: tallies}
}

// ListMenu joins every item of a hall with its tally. An unknown hall is an empty menu.
func (s *catalogService) ListMenu(ctx context.Context, hall string) ([]dto.MenuItemResponse, error) {
	h, ok := models.ParseDiningHall(hall)
	if !ok {
		return []dto.MenuItemResponse{}, nil
	}

	items, err := s.catalog.ListByHall(ctx, h)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	tallies, err := s.tallies.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		t, ok := tallies[it.ID]
		if !ok {
			t = models.ZeroTally(it.ID)
		}
		resp = append(resp, dto.FromModelToMenuItemResponse(it, t))
	}
	return resp, nil
}

func (s *catalogService) GroupedMenu(ctx context.Context, hall string) (*dto.GroupedMenuResponse, error) {
	items, err := s.ListMenu(ctx, hall)
	if err != nil {
		return nil, err
	}
	return &dto.GroupedMenuResponse{
		DiningHall: hall,
		Meals:      GroupMenu(items),
	}, nil
}

func (s *catalogService) GetItem(ctx context.Context, hall string, id int64) (*dto.MenuItemResponse, error) {
	item, err := lookupItem(ctx, s.catalog, hall, id)
	if err != nil {
		return nil, err
	}
	tally, err := s.tallies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToMenuItemResponse(*item, *tally)
	return &resp, nil
}

func lookupItem(ctx context.Context, catalog repository.CatalogRepository, hall string, id int64) (*models.MenuItem, error) {
	h, ok := models.ParseDiningHall(hall)
	if !ok {
		return nil, fmt.Errorf("%q: %w", hall, ErrUnknownHall)
	}
	return catalog.GetByID(ctx, h, id)
}
