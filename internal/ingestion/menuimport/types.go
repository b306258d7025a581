package menuimport

import (
	"strings"

	"foodfinder/internal/microservices/http-api/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FeedItem is one record of the menu feed as published by dining services.
type FeedItem struct {
	ID            int64   `json:"id" validate:"required,gt=0"`
	DiningHall    string  `json:"dining_hall" validate:"required,oneof=rathbone hideaway"`
	MealType      string  `json:"meal_type" validate:"required,max=32"`
	CourseName    string  `json:"course_name" validate:"required,max=128"`
	MenuItemName  string  `json:"menu_item_name" validate:"required,max=255"`
	CalorieText   *string `json:"calorie_text" validate:"omitempty,max=64"`
	AllergenNames string  `json:"allergen_names" validate:"max=512"`
}

func (f *FeedItem) Validate() error {
	return validate.Struct(f)
}

// ToModel normalizes casing and whitespace. Meal types outside breakfast/lunch/dinner are kept
// as-is; grouping simply ignores them.
func (f *FeedItem) ToModel() models.MenuItem {
	item := models.MenuItem{
		ID:          f.ID,
		DiningHall:  models.DiningHall(strings.ToLower(f.DiningHall)),
		MealType:    strings.ToLower(strings.TrimSpace(f.MealType)),
		CourseName:  strings.TrimSpace(f.CourseName),
		Name:        strings.TrimSpace(f.MenuItemName),
		Allergens:   strings.TrimSpace(f.AllergenNames),
		CalorieText: f.CalorieText,
	}
	if item.CalorieText != nil && strings.TrimSpace(*item.CalorieText) == "" {
		item.CalorieText = nil
	}
	return item
}

// Report summarizes one import run.
type Report struct {
	Total    int
	Imported int
	Skipped  int
	Failed   int
}
