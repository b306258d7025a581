package dto

import (
	"time"

	"foodfinder/internal/microservices/http-api/models"

	"github.com/google/uuid"
)

// UpdateItemDTO is the full item record PUT by the client. Only the counters are applied;
// the descriptive fields are accepted and ignored.
type UpdateItemDTO struct {
	ID            *int64  `json:"id"`
	MealType      string  `json:"mealType"`
	CourseName    string  `json:"courseName"`
	MenuItemName  string  `json:"menuItemName"`
	CalorieText   *string `json:"calorieText"`
	AllergenNames string  `json:"allergenNames"`
	Upvotes       *int64  `json:"upvotes" binding:"required,min=0"`
	Downvotes     *int64  `json:"downvotes" binding:"required,min=0"`
}

// CreateFoodRatingDTO is the body of POST /foodratings
type CreateFoodRatingDTO struct {
	ItemName  string `json:"itemName" binding:"required"`
	Upvotes   *int64 `json:"upvotes" binding:"required,min=0"`
	Downvotes *int64 `json:"downvotes" binding:"required,min=0"`
}

// CreateHallRatingDTO is the body of POST /{diningHall}
type CreateHallRatingDTO struct {
	MenuItemName string `json:"menuItemName" binding:"required"`
	Upvotes      *int64 `json:"upvotes" binding:"required,min=0"`
	Downvotes    *int64 `json:"downvotes" binding:"required,min=0"`
}

type CreateStarRatingDTO struct {
	GivenStars int `json:"given_stars" binding:"required,min=1,max=5"`
}

type TallyResponse struct {
	ItemID    int64 `json:"item_id"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

func FromModelToTallyResponse(t models.RatingTally) TallyResponse {
	return TallyResponse{ItemID: t.ItemID, Upvotes: t.Upvotes, Downvotes: t.Downvotes}
}

type RatingEventResponse struct {
	ID        uuid.UUID `json:"id"`
	ItemName  string    `json:"item_name"`
	Upvotes   int64     `json:"upvotes"`
	Downvotes int64     `json:"downvotes"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToRatingEventResponse(e models.RatingEvent) RatingEventResponse {
	return RatingEventResponse{
		ID:        e.ID,
		ItemName:  e.ItemName,
		Upvotes:   e.Upvotes,
		Downvotes: e.Downvotes,
		CreatedAt: e.CreatedAt,
	}
}

type StarRatingResponse struct {
	ItemID          int64   `json:"item_id"`
	TotalGivenStars int64   `json:"total_given_stars"`
	TotalMaxStars   int64   `json:"total_max_stars"`
	RatingsCount    int64   `json:"ratings_count"`
	AverageStars    float64 `json:"average_stars"`
}

func FromModelToStarRatingResponse(s models.StarRating) StarRatingResponse {
	return StarRatingResponse{
		ItemID:          s.ItemID,
		TotalGivenStars: s.TotalGivenStars,
		TotalMaxStars:   s.TotalMaxStars,
		RatingsCount:    s.RatingsCount,
		AverageStars:    s.AverageStars(),
	}
}
