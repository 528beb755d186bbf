package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Setenv("TEST_FINDWORK_KEY", "secret-token")
	path := writeConfig(t, `
schedule: "30 1 * * *"
category: "Data Engineer"
sources:
  remoteok:
    enabled: false
  findwork:
    api_key: ${TEST_FINDWORK_KEY}
currency:
  usd_to_eur: 0.9
http:
  timeout: 10s
  max_retries: 0
storage:
  driver: postgres
  dsn: postgres://user:pw@localhost:5432/jobs
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schedule != "30 1 * * *" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
	if cfg.Category != "Data Engineer" {
		t.Errorf("Category = %q", cfg.Category)
	}
	if !cfg.Sources.Remotive.Enabled || cfg.Sources.RemoteOK.Enabled || !cfg.Sources.Findwork.Enabled {
		t.Errorf("unexpected source enablement: %+v", cfg.Sources)
	}
	if cfg.Sources.Findwork.APIKey != "secret-token" {
		t.Errorf("APIKey = %q, want expanded env var", cfg.Sources.Findwork.APIKey)
	}
	if cfg.Sources.Remotive.URL != defaultRemotiveURL {
		t.Errorf("Remotive URL = %q", cfg.Sources.Remotive.URL)
	}
	if cfg.Currency.USDToEUR != 0.9 || cfg.Currency.GBPToEUR != DefaultGBPToEUR {
		t.Errorf("Currency = %+v", cfg.Currency)
	}
	if cfg.HTTP.Timeout != 10*time.Second || cfg.HTTP.MaxRetries != 0 {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.Storage.ListingsTable != "job_listings" || cfg.Storage.StatisticsTable != "job_statistics" {
		t.Errorf("Storage tables = %+v", cfg.Storage)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
sources:
  findwork:
    enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schedule != DefaultSchedule {
		t.Errorf("Schedule = %q, want %q", cfg.Schedule, DefaultSchedule)
	}
	if cfg.Category != DefaultCategory {
		t.Errorf("Category = %q", cfg.Category)
	}
	if cfg.HTTP.MaxRetries != 2 || cfg.HTTP.RetryDelay != 5*time.Second {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.DSN != defaultSQLitePath {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Currency.USDToEUR != DefaultUSDToEUR || cfg.Currency.GBPToEUR != DefaultGBPToEUR {
		t.Errorf("Currency = %+v, want defaults", cfg.Currency)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "schedule: [broken")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_MissingFindworkCredential(t *testing.T) {
	t.Setenv("TEST_EMPTY_KEY", "")
	path := writeConfig(t, `
sources:
  findwork:
    api_key: ${TEST_EMPTY_KEY}
`)

	_, err := Load(path)
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("Load: expected ErrMissingCredential, got %v", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad cron schedule",
			content: `
schedule: "every day"
sources: {findwork: {enabled: false}}
`,
		},
		{
			name: "no sources enabled",
			content: `
sources:
  remotive: {enabled: false}
  remoteok: {enabled: false}
  findwork: {enabled: false}
`,
		},
		{
			name: "unknown storage driver",
			content: `
sources: {findwork: {enabled: false}}
storage: {driver: mongo}
`,
		},
		{
			name: "postgres without dsn",
			content: `
sources: {findwork: {enabled: false}}
storage: {driver: postgres}
`,
		},
		{
			name: "slack webhook on wrong host",
			content: `
sources: {findwork: {enabled: false}}
notification: {type: slack, webhook_url: "https://example.com/hook"}
`,
		},
		{
			name: "redis without url",
			content: `
sources: {findwork: {enabled: false}}
notification: {type: redis}
`,
		},
		{
			name: "explicit zero usd rate",
			content: `
sources: {findwork: {enabled: false}}
currency: {usd_to_eur: 0}
`,
		},
		{
			name: "negative gbp rate",
			content: `
sources: {findwork: {enabled: false}}
currency: {gbp_to_eur: -1.15}
`,
		},
		{
			name: "bad timeout",
			content: `
sources: {findwork: {enabled: false}}
http: {timeout: soon}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.content)); err == nil {
				t.Fatal("Parse: expected validation error")
			}
		})
	}
}

func TestParse_RedisChannelDefault(t *testing.T) {
	cfg, err := Parse([]byte(`
sources: {findwork: {enabled: false}}
storage: {driver: none}
notification: {type: redis, redis_url: "redis://localhost:6379/0"}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Notification.RedisChannel != DefaultRedisChannel {
		t.Errorf("RedisChannel = %q, want %q", cfg.Notification.RedisChannel, DefaultRedisChannel)
	}
}
