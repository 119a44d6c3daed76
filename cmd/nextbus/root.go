package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/nextbus"
	"github.com/theoremus-urban-solutions/nextbus/config"
	"github.com/theoremus-urban-solutions/nextbus/gtfs"
	"github.com/theoremus-urban-solutions/nextbus/gtfsrt"
	"github.com/theoremus-urban-solutions/nextbus/internal/logging"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// staticDownloadTimeout bounds fetching a zipped schedule over HTTP.
const staticDownloadTimeout = 2 * time.Minute

type rootOptions struct {
	configPath string
	logLevel   string
}

// app is everything a subcommand needs once config and schedule are loaded.
type app struct {
	cfg    *config.AppConfig
	logger *slog.Logger
	svc    *nextbus.Service
	load   gtfs.Loader
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "nextbus",
		Short:         "Next-bus arrivals from a GTFS schedule and a GTFS-Realtime feed",
		Long:          "nextbus searches stops, lists scheduled arrivals and shows live predictions for a transit agency, or serves the same data as JSON over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config.yml (default: search config.yml, config/config.yml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	cmd.AddCommand(
		newSearchCmd(opts),
		newScheduleCmd(opts),
		newArrivalsCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// setup loads config, builds the logger and loads the static schedule.
func setup(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.LoadAppConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := logging.NewStructuredLogger(cmd.ErrOrStderr(), logging.ParseLevel(level), cfg.Logging.Format)

	httpClient := &http.Client{Timeout: staticDownloadTimeout}
	load := func(ctx context.Context) (*gtfs.Store, error) {
		return gtfs.LoadSource(ctx, httpClient, cfg.GTFS.StaticPath, logger)
	}
	store, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule from %s: %w", cfg.GTFS.StaticPath, err)
	}

	feed := gtfsrt.NewClient(nextbus.FeedConfigFrom(cfg.GTFSRT), logger)
	svc := nextbus.NewService(gtfs.NewHolder(store), feed, nextbus.OptionsFrom(cfg, logger))
	return &app{cfg: cfg, logger: logger, svc: svc, load: load}, nil
}

// resolveStop turns a stop id, code or name into a stop.
func (a *app) resolveStop(query string) (gtfs.Stop, error) {
	stop, ok := a.svc.ResolveStop(query)
	if !ok {
		return gtfs.Stop{}, fmt.Errorf("no stop matches %q", query)
	}
	return stop, nil
}

func stopHeading(stop gtfs.Stop) string {
	return titleStyle.Render(stop.Name) + " " + dimStyle.Render("("+stop.ID+")")
}
