package repository

import (
	"context"
	"errors"
	"time"

	"foodfinder/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StarRepository interface {
	Get(ctx context.Context, itemID int64) (*models.StarRating, error)
	Add(ctx context.Context, itemID int64, givenStars int) (*models.StarRating, error)
}

type starRepository struct {
	db *gorm.DB
}

func NewStarRepository(db *gorm.DB) StarRepository {
	return &starRepository{db: db}
}

func (r *starRepository) Get(ctx context.Context, itemID int64) (*models.StarRating, error) {
	var s models.StarRating
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.StarRating{ItemID: itemID}, nil
	}
	if err != nil {
		return nil, unavailable("get star rating", err)
	}
	return &s, nil
}

// Add folds one submission into the totals in a single upsert.
func (r *starRepository) Add(ctx context.Context, itemID int64, givenStars int) (*models.StarRating, error) {
	s := models.StarRating{
		ItemID:          itemID,
		TotalGivenStars: int64(givenStars),
		TotalMaxStars:   models.MaxStars,
		RatingsCount:    1,
	}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "item_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"total_given_stars": gorm.Expr("star_ratings.total_given_stars + ?", givenStars),
					"total_max_stars":   gorm.Expr("star_ratings.total_max_stars + ?", models.MaxStars),
					"ratings_count":     gorm.Expr("star_ratings.ratings_count + 1"),
					"updated_at":        time.Now(),
				}),
			},
			clause.Returning{},
		).
		Create(&s).Error
	if err != nil {
		return nil, unavailable("add star rating", err)
	}
	return &s, nil
}
