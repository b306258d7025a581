package service

import (
	"sort"

	"foodfinder/internal/microservices/http-api/dto"
	"foodfinder/internal/microservices/http-api/models"
)

// GroupMenu arranges items as meal type -> course -> items.
// Meal types follow models.MealTypeOrder and only those present appear; items with any other
// meal type are left out. Courses are alphabetical, items by name then id.
func GroupMenu(items []dto.MenuItemResponse) []dto.MealGroup {
	byMeal := make(map[string]map[string][]dto.MenuItemResponse)
	for _, it := range items {
		courses, ok := byMeal[it.MealType]
		if !ok {
			courses = make(map[string][]dto.MenuItemResponse)
			byMeal[it.MealType] = courses
		}
		courses[it.CourseName] = append(courses[it.CourseName], it)
	}

	groups := make([]dto.MealGroup, 0, len(models.MealTypeOrder))
	for _, meal := range models.MealTypeOrder {
		courses, ok := byMeal[string(meal)]
		if !ok {
			continue
		}

		names := make([]string, 0, len(courses))
		for name := range courses {
			names = append(names, name)
		}
		sort.Strings(names)

		group := dto.MealGroup{MealType: string(meal), Courses: make([]dto.CourseGroup, 0, len(names))}
		for _, name := range names {
			list := courses[name]
			sort.SliceStable(list, func(i, j int) bool {
				if list[i].MenuItemName != list[j].MenuItemName {
					return list[i].MenuItemName < list[j].MenuItemName
				}
				return list[i].ID < list[j].ID
			})
			group.Courses = append(group.Courses, dto.CourseGroup{CourseName: name, Items: list})
		}
		groups = append(groups, group)
	}
	return groups
}
