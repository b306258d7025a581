package command

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var starsCmd = &cobra.Command{
	Use:   "stars [dining-hall] [item-id] [1-5]",
	Short: "Rate a menu item with 1 to 5 stars",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item ID: %w", err)
		}
		stars, err := strconv.Atoi(args[2])
		if err != nil || stars < 1 || stars > 5 {
			return fmt.Errorf("stars must be between 1 and 5")
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()

		rating, err := newClient().RateStars(ctx, args[0], itemID, stars)
		if err != nil {
			return err
		}

		color.Green("✓ Rated %d/5", stars)
		fmt.Printf("Average: %.2f/5 from %d ratings\n", rating.AverageStars, rating.RatingsCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(starsCmd)
}
