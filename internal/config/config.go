package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned by Load when an enabled source requires an
// API credential that resolved to an empty string.
var ErrMissingCredential = errors.New("missing source credential")

// Config is the root configuration for a remotepulse run.
type Config struct {
	Schedule     string // standard 5-field cron spec
	RunOnStart   bool
	Category     string // case-sensitive phrase matched against job titles
	Sources      SourcesConfig
	Currency     CurrencyConfig
	HTTP         HTTPConfig
	Storage      StorageConfig
	Notification NotificationConfig
}

// SourcesConfig holds one entry per supported job board.
type SourcesConfig struct {
	Remotive SourceConfig
	RemoteOK SourceConfig
	Findwork SourceConfig
}

// SourceConfig describes a single job board endpoint.
type SourceConfig struct {
	Enabled bool
	URL     string
	APIKey  string // expanded from env var by Load
}

// CurrencyConfig holds the fixed conversion rates into euros.
type CurrencyConfig struct {
	USDToEUR float64
	GBPToEUR float64
}

// HTTPConfig controls the outbound client shared by all sources.
type HTTPConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// StorageConfig selects the persistence sink and its target tables.
type StorageConfig struct {
	Driver          string // "sqlite", "postgres", "clickhouse" or "none"
	DSN             string
	ListingsTable   string
	StatisticsTable string
}

// NotificationConfig controls where the daily snapshot is announced.
type NotificationConfig struct {
	Type         string `yaml:"type"`        // "log", "slack" or "redis"
	WebhookURL   string `yaml:"webhook_url"` // required if type is "slack"
	RedisURL     string `yaml:"redis_url"`   // required if type is "redis"
	RedisChannel string `yaml:"redis_channel"`
}

const (
	DefaultSchedule        = "0 0 * * *"
	DefaultCategory        = "data engineering"
	DefaultUSDToEUR        = 0.85
	DefaultGBPToEUR        = 1.15
	DefaultListingsTable   = "job_listings"
	DefaultStatisticsTable = "job_statistics"
	DefaultRedisChannel    = "remotepulse:snapshots"

	defaultRemotiveURL = "https://remotive.com/api/remote-jobs"
	defaultRemoteOKURL = "https://remoteok.com/api"
	defaultFindworkURL = "https://findwork.dev/api/jobs/"
	defaultSQLitePath  = "remotepulse.db"
	slackWebhookPrefix = "https://hooks.slack.com/"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Schedule     string             `yaml:"schedule"`
	RunOnStart   bool               `yaml:"run_on_start"`
	Category     string             `yaml:"category"`
	Sources      rawSourcesConfig   `yaml:"sources"`
	Currency     rawCurrencyConfig  `yaml:"currency"`
	HTTP         rawHTTPConfig      `yaml:"http"`
	Storage      rawStorageConfig   `yaml:"storage"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawSourcesConfig struct {
	Remotive rawSourceConfig `yaml:"remotive"`
	RemoteOK rawSourceConfig `yaml:"remoteok"`
	Findwork rawSourceConfig `yaml:"findwork"`
}

type rawSourceConfig struct {
	Enabled *bool  `yaml:"enabled"`
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
}

type rawCurrencyConfig struct {
	USDToEUR *float64 `yaml:"usd_to_eur"`
	GBPToEUR *float64 `yaml:"gbp_to_eur"`
}

type rawHTTPConfig struct {
	Timeout    string `yaml:"timeout"`
	MaxRetries *int   `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
}

type rawStorageConfig struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	ListingsTable   string `yaml:"listings_table"`
	StatisticsTable string `yaml:"statistics_table"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout := 30 * time.Second
	if raw.HTTP.Timeout != "" {
		d, err := time.ParseDuration(raw.HTTP.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse http.timeout %q: %w", raw.HTTP.Timeout, err)
		}
		timeout = d
	}

	retryDelay := 5 * time.Second
	if raw.HTTP.RetryDelay != "" {
		d, err := time.ParseDuration(raw.HTTP.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("parse http.retry_delay %q: %w", raw.HTTP.RetryDelay, err)
		}
		retryDelay = d
	}

	maxRetries := 2
	if raw.HTTP.MaxRetries != nil {
		maxRetries = *raw.HTTP.MaxRetries
	}

	cfg := &Config{
		Schedule:   orDefault(raw.Schedule, DefaultSchedule),
		RunOnStart: raw.RunOnStart,
		Category:   orDefault(raw.Category, DefaultCategory),
		Sources: SourcesConfig{
			Remotive: source(raw.Sources.Remotive, defaultRemotiveURL),
			RemoteOK: source(raw.Sources.RemoteOK, defaultRemoteOKURL),
			Findwork: source(raw.Sources.Findwork, defaultFindworkURL),
		},
		Currency: CurrencyConfig{
			USDToEUR: rateOrDefault(raw.Currency.USDToEUR, DefaultUSDToEUR),
			GBPToEUR: rateOrDefault(raw.Currency.GBPToEUR, DefaultGBPToEUR),
		},
		HTTP: HTTPConfig{
			Timeout:    timeout,
			MaxRetries: maxRetries,
			RetryDelay: retryDelay,
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(orDefault(raw.Storage.Driver, "sqlite")),
			DSN:             raw.Storage.DSN,
			ListingsTable:   orDefault(raw.Storage.ListingsTable, DefaultListingsTable),
			StatisticsTable: orDefault(raw.Storage.StatisticsTable, DefaultStatisticsTable),
		},
		Notification: raw.Notification,
	}
	if cfg.Storage.Driver == "sqlite" && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = defaultSQLitePath
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}
	if cfg.Notification.Type == "redis" && cfg.Notification.RedisChannel == "" {
		cfg.Notification.RedisChannel = DefaultRedisChannel
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func source(raw rawSourceConfig, defaultURL string) SourceConfig {
	enabled := true
	if raw.Enabled != nil {
		enabled = *raw.Enabled
	}
	return SourceConfig{
		Enabled: enabled,
		URL:     orDefault(raw.URL, defaultURL),
		APIKey:  raw.APIKey,
	}
}

// rateOrDefault keeps an explicitly configured rate, zero included.
func rateOrDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return fmt.Errorf("schedule %q: %w", cfg.Schedule, err)
	}

	s := cfg.Sources
	if !s.Remotive.Enabled && !s.RemoteOK.Enabled && !s.Findwork.Enabled {
		return fmt.Errorf("at least one source must be enabled")
	}
	if s.Findwork.Enabled && s.Findwork.APIKey == "" {
		return fmt.Errorf("sources.findwork.api_key: %w (set FINDWORK_API_KEY)", ErrMissingCredential)
	}

	if cfg.Currency.USDToEUR <= 0 || cfg.Currency.GBPToEUR <= 0 {
		return fmt.Errorf("currency rates must be positive, got usd=%v gbp=%v", cfg.Currency.USDToEUR, cfg.Currency.GBPToEUR)
	}

	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative, got %d", cfg.HTTP.MaxRetries)
	}

	switch cfg.Storage.Driver {
	case "sqlite", "postgres", "clickhouse":
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", cfg.Storage.Driver)
		}
	case "none":
	default:
		return fmt.Errorf("storage.driver must be one of sqlite, postgres, clickhouse, none; got %q", cfg.Storage.Driver)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackWebhookPrefix)
		}
	case "redis":
		if cfg.Notification.RedisURL == "" {
			return fmt.Errorf("notification.redis_url is required when type is \"redis\"")
		}
	default:
		return fmt.Errorf("notification.type must be log, slack or redis; got %q", cfg.Notification.Type)
	}

	return nil
}
