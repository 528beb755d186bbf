package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/remotepulse/remotepulse/internal/adapter"
	"github.com/remotepulse/remotepulse/internal/fetch"
)

var sourcesProbe bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all configured job boards",
	Long:  "Reads the config and prints a table of the job boards. With --probe, checks that every enabled board answers.",
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesProbe, "probe", false, "request every enabled board concurrently and report reachability")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var probes map[string]error
	if sourcesProbe {
		reqs := make(map[string]fetch.Request)
		for _, e := range sourceEntries(cfg) {
			if !e.cfg.Enabled {
				continue
			}
			req := fetch.Request{URL: e.cfg.URL}
			if e.name == adapter.SourceFindwork {
				req.Header = map[string]string{"Authorization": "Token " + e.cfg.APIKey}
			}
			reqs[e.name] = req
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout+5*time.Second)
		defer cancel()
		probes = fetch.NewClient(newHTTPClient(cfg)).Probe(ctx, reqs)
	}

	fmt.Printf("%-10s %-9s %-45s %s\n", "Source", "Status", "URL", "Probe")
	fmt.Println(strings.Repeat("─", 76))

	enabled := 0
	for _, e := range sourceEntries(cfg) {
		status := "disabled"
		if e.cfg.Enabled {
			status = "enabled"
			enabled++
		}
		probe := "-"
		if err, ok := probes[e.name]; ok {
			probe = "ok"
			if err != nil {
				probe = err.Error()
			}
		}
		fmt.Printf("%-10s %-9s %-45s %s\n", e.name, status, e.cfg.URL, probe)
	}

	fmt.Printf("\nTotal: 3 sources (%d enabled)\n", enabled)
	return nil
}
