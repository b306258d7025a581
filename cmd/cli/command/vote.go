package command

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Upvote or downvote a menu item",
}

func newVoteCmd(up bool) *cobra.Command {
	use, short := "down [dining-hall] [item-id]", "Downvote a menu item"
	if up {
		use, short = "up [dining-hall] [item-id]", "Upvote a menu item"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item ID: %w", err)
			}

			ctx, cancel := requestContext(cmd)
			defer cancel()

			item, err := newClient().Vote(ctx, args[0], itemID, up)
			if err != nil {
				return err
			}

			color.Green("✓ Vote recorded for %s", item.MenuItemName)
			fmt.Printf("Upvotes: %d  Downvotes: %d\n", item.Upvotes, item.Downvotes)
			return nil
		},
	}
}

var tallyCmd = &cobra.Command{
	Use:   "tally [dining-hall] [item-id]",
	Short: "Show the current tally of an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item ID: %w", err)
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()

		tally, err := newClient().Tally(ctx, args[0], itemID)
		if err != nil {
			return err
		}
		fmt.Printf("Item %d: ▲ %d  ▼ %d\n", tally.ItemID, tally.Upvotes, tally.Downvotes)
		return nil
	},
}

func init() {
	voteCmd.AddCommand(newVoteCmd(true))
	voteCmd.AddCommand(newVoteCmd(false))
	voteCmd.AddCommand(tallyCmd)
	rootCmd.AddCommand(voteCmd)
}
