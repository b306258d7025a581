package models

import "time"

type DiningHall string

const (
	Rathbone     DiningHall = "rathbone"
	HideawayCafe DiningHall = "hideaway"
)

// DiningHalls lists every hall the service knows about.
var DiningHalls = []DiningHall{Rathbone, HideawayCafe}

// ParseDiningHall resolves a URL slug to a known hall.
func ParseDiningHall(slug string) (DiningHall, bool) {
	for _, h := range DiningHalls {
		if string(h) == slug {
			return h, true
		}
	}
	return "", false
}

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypeOrder is the display priority of meal types; anything else is left out of grouping.
var MealTypeOrder = []MealType{Breakfast, Lunch, Dinner}

type MenuItem struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	DiningHall  DiningHall `json:"dining_hall" gorm:"type:varchar(32);not null;index"`
	MealType    string     `json:"meal_type" gorm:"type:varchar(32);not null"`
	CourseName  string     `json:"course_name" gorm:"not null"`
	Name        string     `json:"menu_item_name" gorm:"column:menu_item_name;not null"`
	CalorieText *string    `json:"calorie_text"`
	Allergens   string     `json:"allergen_names" gorm:"column:allergen_names"`
	CreatedAt   time.Time  `json:"-" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"-" gorm:"autoUpdateTime"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
