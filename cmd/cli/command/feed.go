package command

import (
	"os"
	"os/signal"
	"syscall"

	"foodfinder/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Follow live vote tallies",
	Long:  `Stream every server-confirmed tally change until interrupted (Ctrl-C).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return client.FollowFeed(ctx, apiURL, client.PrintFeedMessage)
	},
}

func init() {
	rootCmd.AddCommand(feedCmd)
}
