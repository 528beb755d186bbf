package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/remotepulse/remotepulse/internal/adapter"
	"github.com/remotepulse/remotepulse/internal/config"
	"github.com/remotepulse/remotepulse/internal/currency"
	"github.com/remotepulse/remotepulse/internal/fetch"
	"github.com/remotepulse/remotepulse/internal/filter"
	"github.com/remotepulse/remotepulse/internal/model"
	"github.com/remotepulse/remotepulse/internal/notifier"
	"github.com/remotepulse/remotepulse/internal/pipeline"
	"github.com/remotepulse/remotepulse/internal/retry"
	"github.com/remotepulse/remotepulse/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "remotepulse",
	Short: "Daily remote-job pulse",
	Long:  "remotepulse collects yesterday's remote postings from several job boards, normalizes salaries to euros and records a daily statistics snapshot.",
	// Default to `start` so that `remotepulse` with no args runs the daemon.
	RunE:          runStart,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: REMOTEPULSE_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > REMOTEPULSE_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("REMOTEPULSE_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTP.Timeout}
}

// setupNotifier returns the configured notifier and a release func for any
// connection it holds.
func setupNotifier(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.Notifier, func(), error) {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, cfg.Category, httpClient, logger), func() {}, nil
	case "redis":
		rdb, err := notifier.NewRedisClient(ctx, cfg.Notification.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis notifier", "channel", cfg.Notification.RedisChannel)
		return notifier.NewRedisNotifier(rdb, cfg.Notification.RedisChannel, logger), func() { rdb.Close() }, nil
	default:
		return notifier.NewLogNotifier(logger), func() {}, nil
	}
}

// sourceEntry pairs a configured board with its adapter constructor.
type sourceEntry struct {
	name  string
	cfg   config.SourceConfig
	build func(client adapter.Getter) model.JobFetcher
}

func sourceEntries(cfg *config.Config) []sourceEntry {
	s := cfg.Sources
	return []sourceEntry{
		{adapter.SourceRemotive, s.Remotive, func(c adapter.Getter) model.JobFetcher {
			return adapter.NewRemotiveAdapter(s.Remotive.URL, c)
		}},
		{adapter.SourceRemoteOK, s.RemoteOK, func(c adapter.Getter) model.JobFetcher {
			return adapter.NewRemoteOKAdapter(s.RemoteOK.URL, c)
		}},
		{adapter.SourceFindwork, s.Findwork, func(c adapter.Getter) model.JobFetcher {
			return adapter.NewFindworkAdapter(s.Findwork.URL, s.Findwork.APIKey, c)
		}},
	}
}

// buildSources wires every enabled board behind the retry decorator.
func buildSources(cfg *config.Config, client *fetch.Client, logger *slog.Logger) []pipeline.Source {
	var sources []pipeline.Source
	for _, e := range sourceEntries(cfg) {
		if !e.cfg.Enabled {
			continue
		}
		fetcher := retry.NewRetryFetcher(e.name, e.build(client), cfg.HTTP.MaxRetries, cfg.HTTP.RetryDelay, logger)
		sources = append(sources, pipeline.Source{Name: e.name, Fetcher: fetcher})
		logger.Debug("registered source", "source", e.name, "url", e.cfg.URL)
	}
	return sources
}

func buildPipeline(cfg *config.Config, sources []pipeline.Source, sink model.Sink, n model.Notifier, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		Sources:    sources,
		Normalizer: currency.NewNormalizer(cfg.Currency.USDToEUR, cfg.Currency.GBPToEUR),
		Category:   filter.NewTitleContains(cfg.Category),
		Remote:     filter.NewRemoteLocation(),
		Sink:       sink,
		Tables: pipeline.Tables{
			Listings:   cfg.Storage.ListingsTable,
			Statistics: cfg.Storage.StatisticsTable,
		},
		Notifier: n,
		Logger:   logger,
	})
}

func openSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.Sink, error) {
	sink, err := store.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN, store.Tables{
		Listings:   cfg.Storage.ListingsTable,
		Statistics: cfg.Storage.StatisticsTable,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}
	return sink, nil
}
