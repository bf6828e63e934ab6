package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TopicWatcher/internal/app"
	"TopicWatcher/internal/config"
	"TopicWatcher/internal/logging"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          "topicwatcher",
	Short:        "Watch a listing page and forward new topics",
	Long:         "topicwatcher polls a listing page, detects topics it has not reported before and posts them to a downstream endpoint.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, logger, err := build(ctx, config.Load(flagConfig))
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Run(ctx); err != nil {
			logger.Error("application stopped", "error", err)
			return err
		}
		return nil
	},
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := build(cmd.Context(), config.Load(flagConfig))
		if err != nil {
			return err
		}
		defer application.Close()

		report := application.RunOnce(cmd.Context())
		fmt.Printf("Found %d topic(s), %d new, %d delivered, %d failed.\n",
			report.Found, report.New, report.Delivered, report.Failed)
		return nil
	},
}

var seenCmd = &cobra.Command{
	Use:   "seen",
	Short: "Show how many topics are already recorded",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(flagConfig)
		application, _, err := build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		count, err := application.SeenCount(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading seen topics: %w", err)
		}

		fmt.Printf("Storage: %s (%s)\n", cfg.Storage.Path, cfg.Storage.Driver)
		fmt.Printf("Seen topics: %d\n", count)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(seenCmd)
}

func build(ctx context.Context, cfg config.Config) (*app.Application, *slog.Logger, error) {
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("cannot start", "error", err)
		return nil, nil, err
	}
	return application, logger, nil
}
