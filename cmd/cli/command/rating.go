package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Rating log commands",
	Long:  `Append entries to the food rating log and list them`,
}

var logRatingCmd = &cobra.Command{
	Use:   "log [item-name] [upvotes] [downvotes]",
	Short: "Append a rating entry for an item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		upvotes, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || upvotes < 0 {
			return fmt.Errorf("upvotes must be a non-negative number")
		}
		downvotes, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil || downvotes < 0 {
			return fmt.Errorf("downvotes must be a non-negative number")
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()

		event, err := newClient().LogRating(ctx, args[0], upvotes, downvotes)
		if err != nil {
			return err
		}

		color.Green("✓ Rating logged")
		fmt.Printf("Entry: %s\n", event.ID)
		fmt.Printf("Item: %s  ▲ %d  ▼ %d\n", event.ItemName, event.Upvotes, event.Downvotes)
		return nil
	},
}

var listRatingsCmd = &cobra.Command{
	Use:   "list",
	Short: "List rating log entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		item, _ := cmd.Flags().GetString("item")
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := requestContext(cmd)
		defer cancel()

		events, err := newClient().ListRatings(ctx, item, limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No ratings found.")
			return nil
		}

		for _, e := range events {
			fmt.Printf("%s  %-30s ▲ %-5d ▼ %d\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.ItemName, e.Upvotes, e.Downvotes)
		}
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("%d entries\n", len(events))
		return nil
	},
}

func init() {
	ratingCmd.AddCommand(logRatingCmd)
	ratingCmd.AddCommand(listRatingsCmd)
	rootCmd.AddCommand(ratingCmd)

	listRatingsCmd.Flags().String("item", "", "only entries for this item name")
	listRatingsCmd.Flags().Int("limit", 20, "maximum number of entries")
}
