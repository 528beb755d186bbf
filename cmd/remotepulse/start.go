package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remotepulse/remotepulse/internal/fetch"
	"github.com/remotepulse/remotepulse/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daily ETL daemon",
	Long:  "Start the cron scheduler; one run fires per schedule tick. Blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"schedule", cfg.Schedule,
		"category", cfg.Category,
		"storage", cfg.Storage.Driver,
		"notification", cfg.Notification.Type,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, err := openSink(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	httpClient := newHTTPClient(cfg)
	n, release, err := setupNotifier(ctx, cfg, httpClient, logger)
	if err != nil {
		logger.Error("failed to set up notifier", "error", err)
		os.Exit(1)
	}
	defer release()

	sources := buildSources(cfg, fetch.NewClient(httpClient), logger)
	p := buildPipeline(cfg, sources, sink, n, logger)

	sched := scheduler.NewScheduler(p, cfg.Schedule, cfg.RunOnStart, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
