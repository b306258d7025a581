package dto

import (
	"foodfinder/internal/microservices/http-api/models"
)

// MenuItemResponse is the wire shape the mobile client decodes (snake_case keys,
// calorie_text is null when the hall does not publish it).
type MenuItemResponse struct {
	ID            int64   `json:"id"`
	MealType      string  `json:"meal_type"`
	CourseName    string  `json:"course_name"`
	MenuItemName  string  `json:"menu_item_name"`
	CalorieText   *string `json:"calorie_text"`
	AllergenNames string  `json:"allergen_names"`
	Upvotes       int64   `json:"upvotes"`
	Downvotes     int64   `json:"downvotes"`
}

// FromModelToMenuItemResponse joins an item with its tally
func FromModelToMenuItemResponse(item models.MenuItem, tally models.RatingTally) MenuItemResponse {
	return MenuItemResponse{
		ID:            item.ID,
		MealType:      item.MealType,
		CourseName:    item.CourseName,
		MenuItemName:  item.Name,
		CalorieText:   item.CalorieText,
		AllergenNames: item.Allergens,
		Upvotes:       tally.Upvotes,
		Downvotes:     tally.Downvotes,
	}
}

type CourseGroup struct {
	CourseName string             `json:"course_name"`
	Items      []MenuItemResponse `json:"items"`
}

type MealGroup struct {
	MealType string        `json:"meal_type"`
	Courses  []CourseGroup `json:"courses"`
}

type GroupedMenuResponse struct {
	DiningHall string      `json:"dining_hall"`
	Meals      []MealGroup `json:"meals"`
}
