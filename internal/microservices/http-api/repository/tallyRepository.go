package repository

import (
	"context"
	"errors"
	"time"

	"foodfinder/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TallyRepository owns the vote counters. ApplyVote must be atomic per item: two concurrent
// votes on the same item always add two.
type TallyRepository interface {
	Get(ctx context.Context, itemID int64) (*models.RatingTally, error)
	GetMany(ctx context.Context, itemIDs []int64) (map[int64]models.RatingTally, error)
	ApplyVote(ctx context.Context, itemID int64, dir models.VoteDirection) (*models.RatingTally, error)
	Overwrite(ctx context.Context, itemID int64, upvotes, downvotes int64) (*models.RatingTally, error)
}

type tallyRepository struct {
	db *gorm.DB
}

func NewTallyRepository(db *gorm.DB) TallyRepository {
	return &tallyRepository{db: db}
}

func (r *tallyRepository) Get(ctx context.Context, itemID int64) (*models.RatingTally, error) {
	var tally models.RatingTally
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Take(&tally).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		zero := models.ZeroTally(itemID)
		return &zero, nil
	}
	if err != nil {
		return nil, unavailable("get tally", err)
	}
	return &tally, nil
}

func (r *tallyRepository) GetMany(ctx context.Context, itemIDs []int64) (map[int64]models.RatingTally, error) {
	out := make(map[int64]models.RatingTally, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var rows []models.RatingTally
	if err := r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&rows).Error; err != nil {
		return nil, unavailable("get tallies", err)
	}
	for _, t := range rows {
		out[t.ItemID] = t
	}
	return out, nil
}

// ApplyVote is one INSERT ... ON CONFLICT DO UPDATE ... RETURNING statement, so the row lock
// taken by Postgres serializes votes on the same item and nothing is lost.
func (r *tallyRepository) ApplyVote(ctx context.Context, itemID int64, dir models.VoteDirection) (*models.RatingTally, error) {
	tally := models.RatingTally{ItemID: itemID}
	column := "upvotes"
	if dir == models.VoteDown {
		column = "downvotes"
		tally.Downvotes = 1
	} else {
		tally.Upvotes = 1
	}

	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "item_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					column:       gorm.Expr("rating_tallies." + column + " + 1"),
					"updated_at": time.Now(),
				}),
			},
			clause.Returning{},
		).
		Create(&tally).Error
	if err != nil {
		return nil, unavailable("apply vote", err)
	}
	return &tally, nil
}

// Overwrite stores absolute counts. Concurrent overwrites are last-writer-wins.
func (r *tallyRepository) Overwrite(ctx context.Context, itemID int64, upvotes, downvotes int64) (*models.RatingTally, error) {
	tally := models.RatingTally{ItemID: itemID, Upvotes: upvotes, Downvotes: downvotes}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "item_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"upvotes", "downvotes", "updated_at"}),
			},
			clause.Returning{},
		).
		Create(&tally).Error
	if err != nil {
		return nil, unavailable("overwrite tally", err)
	}
	return &tally, nil
}
