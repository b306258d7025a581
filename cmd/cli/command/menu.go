package command

import (
	"fmt"
	"strings"

	"foodfinder/internal/microservices/http-api/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu [dining-hall]",
	Short: "Show a dining hall's menu with votes",
	Long: `Show every item of a dining hall with its current upvotes and downvotes.
With --grouped the menu is shown by meal (breakfast, lunch, dinner) and course.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grouped, _ := cmd.Flags().GetBool("grouped")

		ctx, cancel := requestContext(cmd)
		defer cancel()

		if grouped {
			menu, err := newClient().GroupedMenu(ctx, args[0])
			if err != nil {
				return err
			}
			printGroupedMenu(menu)
			return nil
		}

		items, err := newClient().Menu(ctx, args[0])
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Printf("No menu items for %q.\n", args[0])
			return nil
		}
		for _, it := range items {
			printItem(it)
		}
		return nil
	},
}

func printGroupedMenu(menu *dto.GroupedMenuResponse) {
	if len(menu.Meals) == 0 {
		fmt.Printf("No menu items for %q.\n", menu.DiningHall)
		return
	}
	for _, meal := range menu.Meals {
		color.New(color.Bold, color.FgGreen).Println(strings.ToUpper(meal.MealType))
		for _, course := range meal.Courses {
			color.New(color.FgYellow).Printf("  %s\n", course.CourseName)
			for _, it := range course.Items {
				fmt.Print("    ")
				printItem(it)
			}
		}
		fmt.Println()
	}
}

func printItem(it dto.MenuItemResponse) {
	calories := ""
	if it.CalorieText != nil {
		calories = " (" + *it.CalorieText + ")"
	}
	fmt.Printf("#%d %s%s  ", it.ID, it.MenuItemName, calories)
	color.New(color.FgGreen).Printf("▲ %d ", it.Upvotes)
	color.New(color.FgRed).Printf("▼ %d", it.Downvotes)
	if it.AllergenNames != "" {
		color.New(color.FgHiBlack).Printf("  [%s]", it.AllergenNames)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(menuCmd)
	menuCmd.Flags().Bool("grouped", false, "group by meal type and course")
}
