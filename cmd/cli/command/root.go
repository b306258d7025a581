package command

// root.go defines the root command for the foodfinderCLI application.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"foodfinder/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL  string // Global flag for API server URL
	timeout time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foodfinderCLI",
	Short: "foodfinderCLI - dining hall menus and ratings from the terminal",
	Long: `foodfinderCLI talks to the foodfinder API. Use it to:
- Browse a dining hall's menu grouped by meal and course
- Upvote or downvote menu items
- Log and list food ratings
- Rate items with 1-5 stars
- Follow live vote tallies

Use "foodfinderCLI command --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	defaultAPI := os.Getenv("FOODFINDER_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8000"
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
}

func newClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL)
}

// requestContext bounds a single command by --timeout and Ctrl-C.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func printError(err error) {
	var (
		netErr *client.NetworkError
		decErr *client.DecodeError
		apiErr *client.APIError
	)
	switch {
	case errors.As(err, &netErr):
		color.Red("✗ cannot reach %s: %v", apiURL, netErr.Err)
	case errors.As(err, &decErr):
		color.Red("✗ unexpected response from server: %v", decErr.Err)
	case errors.Is(err, client.ErrUnavailable):
		color.Yellow("⚠ the rating store is unavailable, try again shortly")
	case errors.As(err, &apiErr):
		color.Red("✗ %s", apiErr.Error())
	default:
		fmt.Fprintln(os.Stderr, err)
	}
}
