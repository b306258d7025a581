package service

import (
	"testing"

	"foodfinder/internal/microservices/http-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMenu_FixedMealOrderAndDropsUnknown(t *testing.T) {
	items := []dto.MenuItemResponse{
		{ID: 1, MealType: "lunch", CourseName: "Soups", MenuItemName: "Chili"},
		{ID: 2, MealType: "breakfast", CourseName: "Grill", MenuItemName: "Eggs"},
		{ID: 3, MealType: "dinner", CourseName: "Entrees", MenuItemName: "Salmon"},
		{ID: 4, MealType: "brunch", CourseName: "Grill", MenuItemName: "Waffles"},
		{ID: 5, MealType: "lunch", CourseName: "Entrees", MenuItemName: "Pizza"},
		{ID: 6, MealType: "lunch", CourseName: "Entrees", MenuItemName: "Burger"},
	}

	groups := GroupMenu(items)
	require.Len(t, groups, 3)
	assert.Equal(t, "breakfast", groups[0].MealType)
	assert.Equal(t, "lunch", groups[1].MealType)
	assert.Equal(t, "dinner", groups[2].MealType)

	lunch := groups[1]
	require.Len(t, lunch.Courses, 2)
	assert.Equal(t, "Entrees", lunch.Courses[0].CourseName)
	assert.Equal(t, "Soups", lunch.Courses[1].CourseName)
	assert.Equal(t, "Burger", lunch.Courses[0].Items[0].MenuItemName)
	assert.Equal(t, "Pizza", lunch.Courses[0].Items[1].MenuItemName)

	for _, g := range groups {
		for _, c := range g.Courses {
			for _, it := range c.Items {
				assert.NotEqual(t, "Waffles", it.MenuItemName)
			}
		}
	}
}

func TestGroupMenu_OnlyPresentMeals(t *testing.T) {
	groups := GroupMenu([]dto.MenuItemResponse{
		{ID: 1, MealType: "dinner", CourseName: "Sides", MenuItemName: "Rice"},
	})
	require.Len(t, groups, 1)
	assert.Equal(t, "dinner", groups[0].MealType)

	assert.Empty(t, GroupMenu(nil))
}
