package repository

import (
	"context"

	"foodfinder/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type EventFilter struct {
	ItemName string
	Limit    int
}

// EventRepository is the append-only rating log. There is no update or delete.
type EventRepository interface {
	Append(ctx context.Context, event *models.RatingEvent) error
	List(ctx context.Context, filter EventFilter) ([]models.RatingEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Append(ctx context.Context, event *models.RatingEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return unavailable("append rating event", err)
	}
	return nil
}

// List returns events newest first.
func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]models.RatingEvent, error) {
	events := make([]models.RatingEvent, 0)
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.ItemName != "" {
		q = q.Where("item_name = ?", filter.ItemName)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, unavailable("list rating events", err)
	}
	return events, nil
}
