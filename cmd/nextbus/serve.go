package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/nextbus"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var reload time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stops, schedules and live arrivals as JSON over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := setup(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if reload > 0 {
				go a.reloadEvery(ctx, reload)
			}
			return nextbus.NewServer(a.svc, a.cfg.Server.Port, a.logger).Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&reload, "reload", 0, "rebuild the schedule from gtfs.staticPath at this interval (0 disables)")
	return cmd
}

// reloadEvery rebuilds the schedule until ctx is done. A failed reload keeps
// the current schedule.
func (a *app) reloadEvery(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := a.svc.Reload(ctx, a.load); err != nil {
				a.logger.Warn("keeping previous schedule", slog.String("error", err.Error()))
			}
		}
	}
}
