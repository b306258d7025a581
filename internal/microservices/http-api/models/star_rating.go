package models

import "time"

const MaxStars = 5

type StarRating struct {
	ItemID          int64     `json:"item_id" gorm:"primaryKey;autoIncrement:false"`
	TotalGivenStars int64     `json:"total_given_stars" gorm:"not null;default:0"`
	TotalMaxStars   int64     `json:"total_max_stars" gorm:"not null;default:0"`
	RatingsCount    int64     `json:"ratings_count" gorm:"not null;default:0"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (StarRating) TableName() string {
	return "star_ratings"
}

// AverageStars scales the given/max ratio back onto the 0..MaxStars range.
func (s StarRating) AverageStars() float64 {
	if s.TotalMaxStars == 0 {
		return 0
	}
	return float64(s.TotalGivenStars) / float64(s.TotalMaxStars) * MaxStars
}
