package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/remotepulse/remotepulse/internal/browse"
	"github.com/remotepulse/remotepulse/internal/config"
	"github.com/remotepulse/remotepulse/internal/fetch"
	"github.com/remotepulse/remotepulse/internal/filter"
	"github.com/remotepulse/remotepulse/internal/pipeline"
	"github.com/remotepulse/remotepulse/internal/store"
)

var browseDate string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse a day's postings interactively (TUI)",
	Long:  "Shows the source picker, fetches and normalizes that day's postings, then opens the split-pane browser. Nothing is persisted.",
	RunE:  runBrowseCmd,
}

func init() {
	browseCmd.Flags().StringVar(&browseDate, "date", "", "target date as YYYY-MM-DD (default: yesterday)")
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	target := filter.TargetDate(time.Now())
	if browseDate != "" {
		if target, err = time.Parse(time.DateOnly, browseDate); err != nil {
			logger.Error("invalid --date, want YYYY-MM-DD", "date", browseDate)
			os.Exit(1)
		}
	}

	runBrowse(cfg, target)
	return nil
}

func runBrowse(cfg *config.Config, target time.Time) {
	// Any log output while the TUI owns the terminal corrupts the display.
	silent := slog.New(slog.NewTextHandler(io.Discard, nil))
	sources := buildSources(cfg, fetch.NewClient(newHTTPClient(cfg)), silent)
	if len(sources) == 0 {
		fmt.Println("No enabled sources in config.")
		return
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	label := target.Format(time.DateOnly)

	for {
		choice, err := browse.RunSourcePicker(label, names)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}
		if choice < 0 {
			return
		}

		selected, what := sources, "all sources"
		if choice != browse.AllSources {
			selected, what = sources[choice-1:choice], names[choice-1]
		}

		p := buildPipeline(cfg, selected, store.NewNopSink(silent), nil, silent)
		res, err := browse.RunLoader(what, func(ctx context.Context) pipeline.Result {
			return p.Build(ctx, target)
		})
		if err != nil {
			fmt.Printf("Error fetching postings: %v\n", err)
			continue
		}

		wantQuit, err := browse.RunBrowseTUI(res, cfg.Category,
			filter.NewTitleContains(cfg.Category), filter.NewRemoteLocation())
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return
		}
		// else: loop → back to picker
	}
}
