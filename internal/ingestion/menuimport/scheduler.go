package menuimport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// RunScheduled runs job on every tick of spec (standard 5-field cron syntax) until ctx is
// cancelled. Runs never overlap; a tick that arrives while one is still running is skipped.
func RunScheduled(ctx context.Context, spec string, logger *slog.Logger, job func(context.Context)) error {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	c.Start()
	logger.Info("menu_import_scheduled", "cron", spec)

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("menu_import_scheduler_stopped")
	return nil
}
