package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/remotepulse/remotepulse/internal/fetch"
	"github.com/remotepulse/remotepulse/internal/filter"
	"github.com/remotepulse/remotepulse/internal/model"
	"github.com/remotepulse/remotepulse/internal/pipeline"
	"github.com/remotepulse/remotepulse/internal/store"
)

var (
	runDryRun bool
	runDate   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ETL once and exit",
	Long:  "Runs one collect/filter/normalize/aggregate/persist cycle for yesterday (or --date) and prints the snapshot.",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "do not persist anything")
	runCmd.Flags().StringVar(&runDate, "date", "", "target date as YYYY-MM-DD (default: yesterday)")
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	target := filter.TargetDate(time.Now())
	if runDate != "" {
		target, err = time.Parse(time.DateOnly, runDate)
		if err != nil {
			logger.Error("invalid --date, want YYYY-MM-DD", "date", runDate)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sink model.Sink
	if runDryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		sink = store.NewNopSink(logger)
	} else {
		sink, err = openSink(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to open storage", "error", err)
			os.Exit(1)
		}
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
	res, err := buildPipeline(cfg, sources, sink, n, logger).Run(ctx, target)
	printResult(res)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	return nil
}

func printResult(res pipeline.Result) {
	fmt.Printf("\n%-12s %s\n", "Source", "Fetched")
	fmt.Println(strings.Repeat("─", 32))
	for _, b := range res.Batches {
		status := fmt.Sprintf("%d", len(b.Jobs))
		if b.Err != nil {
			status = "failed: " + b.Err.Error()
		}
		fmt.Printf("%-12s %s\n", b.Source, status)
	}

	s := res.Snapshot
	fmt.Printf("\nSnapshot %s: %d kept, %d in category, %d remote\n", s.Date, res.Kept, s.CategoryJobCount, s.CategoryRemoteCount)
	if s.AverageSalary == nil {
		fmt.Println("No salary data in category.")
		return
	}
	fmt.Printf("Salary: min %.2f€  max %.2f€  avg %.2f€  sd %.2f€\n",
		*s.MinimumSalary, *s.MaximumSalary, *s.AverageSalary, *s.StandardDeviation)
}
