package repository

import (
	"context"
	"errors"
	"fmt"

	"foodfinder/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository interface {
	ListByHall(ctx context.Context, hall models.DiningHall) ([]models.MenuItem, error)
	GetByID(ctx context.Context, hall models.DiningHall, id int64) (*models.MenuItem, error)
	Upsert(ctx context.Context, items []models.MenuItem) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListByHall(ctx context.Context, hall models.DiningHall) ([]models.MenuItem, error) {
	list := make([]models.MenuItem, 0)
	if err := r.db.WithContext(ctx).
		Where("dining_hall = ?", hall).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, unavailable("list menu items", err)
	}
	return list, nil
}

func (r *catalogRepository) GetByID(ctx context.Context, hall models.DiningHall, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("dining_hall = ? AND id = ?", hall, id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotInHall(hall, id)
	}
	if err != nil {
		return nil, unavailable("get menu item", err)
	}
	return &item, nil
}

// Upsert inserts new items and refreshes the descriptive columns of existing ones.
// Ids are never reassigned.
func (r *catalogRepository) Upsert(ctx context.Context, items []models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"dining_hall", "meal_type", "course_name", "menu_item_name",
				"calorie_text", "allergen_names", "updated_at",
			}),
		}).
		CreateInBatches(items, 200).Error
	if err != nil {
		return unavailable("upsert menu items", err)
	}
	return nil
}

// HallsOf returns the distinct halls present in items, in first-seen order.
func HallsOf(items []models.MenuItem) []models.DiningHall {
	seen := make(map[models.DiningHall]bool)
	var halls []models.DiningHall
	for _, it := range items {
		if !seen[it.DiningHall] {
			seen[it.DiningHall] = true
			halls = append(halls, it.DiningHall)
		}
	}
	return halls
}

func errNotInHall(hall models.DiningHall, id int64) error {
	return fmt.Errorf("item %d in %s: %w", id, hall, ErrItemNotFound)
}
