package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingEvent is an append-only log row. ItemName is a denormalized copy, not a foreign key.
type RatingEvent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ItemName  string    `json:"item_name" gorm:"not null;index"`
	Upvotes   int64     `json:"upvotes" gorm:"not null"`
	Downvotes int64     `json:"downvotes" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (RatingEvent) TableName() string {
	return "food_ratings"
}

func NewRatingEvent(itemName string, upvotes, downvotes int64) *RatingEvent {
	return &RatingEvent{
		ID:        uuid.New(),
		ItemName:  itemName,
		Upvotes:   upvotes,
		Downvotes: downvotes,
		CreatedAt: time.Now().UTC(),
	}
}
