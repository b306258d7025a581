package models

import "time"

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// RatingTally holds the vote counters of one menu item. Rows are created on the first vote.
type RatingTally struct {
	ItemID    int64     `json:"item_id" gorm:"primaryKey;autoIncrement:false"`
	Upvotes   int64     `json:"upvotes" gorm:"not null;default:0;check:upvotes >= 0"`
	Downvotes int64     `json:"downvotes" gorm:"not null;default:0;check:downvotes >= 0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (RatingTally) TableName() string {
	return "rating_tallies"
}

// ZeroTally is what an item that was never voted on reports.
func ZeroTally(itemID int64) RatingTally {
	return RatingTally{ItemID: itemID}
}
