package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envVars = []string{
	"PRODUCTIVITY_PORT", "PRODUCTIVITY_METRICS_PORT", "PRODUCTIVITY_ADMIN_TOKEN",
	"PRODUCTIVITY_DATABASE_URL", "PRODUCTIVITY_DATABASE_MIGRATE", "PRODUCTIVITY_HERMES_URL",
	"PRODUCTIVITY_NOTION_BASE_URL", "PRODUCTIVITY_NOTION_TOKEN", "PRODUCTIVITY_NOTION_VERSION",
	"PRODUCTIVITY_WEIGHT_URGENT", "PRODUCTIVITY_WEIGHT_IMPORTANT", "PRODUCTIVITY_WEIGHT_UNHURRIED",
	"PRODUCTIVITY_SCHEDULE_INTERVAL_MS", "PRODUCTIVITY_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.RateLimit != 120 {
		t.Errorf("expected rate limit 120, got %d", cfg.Server.RateLimit)
	}
	if !cfg.Database.Migrate {
		t.Error("expected migrate enabled by default")
	}
	if cfg.Hermes.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Hermes.URL)
	}
	if cfg.Notion.CompletedProperty != "Feito" {
		t.Errorf("expected completed property 'Feito', got '%s'", cfg.Notion.CompletedProperty)
	}
	if cfg.Notion.PriorityProperty != "Prioridade" {
		t.Errorf("expected priority property 'Prioridade', got '%s'", cfg.Notion.PriorityProperty)
	}
	if cfg.Notion.PageSize != 100 {
		t.Errorf("expected page size 100, got %d", cfg.Notion.PageSize)
	}
	if !cfg.Notion.Breaker.Enabled {
		t.Error("expected breaker enabled by default")
	}
	if cfg.Notion.Breaker.FailureThreshold != 5 {
		t.Errorf("expected failure threshold 5, got %d", cfg.Notion.Breaker.FailureThreshold)
	}

	w := cfg.Scoring.Weights
	if w.Urgent != 3 || w.Important != 2 || w.Unhurried != 1 {
		t.Errorf("unexpected default weights %+v", w)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}

	// Duration helpers
	if cfg.NotionTimeout() != 10*time.Second {
		t.Errorf("expected NotionTimeout 10s, got %v", cfg.NotionTimeout())
	}
	if cfg.BreakerOpenTimeout() != 30*time.Second {
		t.Errorf("expected BreakerOpenTimeout 30s, got %v", cfg.BreakerOpenTimeout())
	}
	if cfg.ScheduleInterval() != 0 {
		t.Errorf("expected schedule disabled, got %v", cfg.ScheduleInterval())
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRODUCTIVITY_PORT", "9000")
	t.Setenv("PRODUCTIVITY_METRICS_PORT", "9001")
	t.Setenv("PRODUCTIVITY_ADMIN_TOKEN", "secret-token")
	t.Setenv("PRODUCTIVITY_DATABASE_URL", "postgres://localhost/productivity_test")
	t.Setenv("PRODUCTIVITY_DATABASE_MIGRATE", "false")
	t.Setenv("PRODUCTIVITY_HERMES_URL", "nats://nats:4222")
	t.Setenv("PRODUCTIVITY_NOTION_BASE_URL", "https://api.notion.com/v1/databases/abc/query")
	t.Setenv("PRODUCTIVITY_NOTION_TOKEN", "secret_xyz")
	t.Setenv("PRODUCTIVITY_NOTION_VERSION", "2022-06-28")
	t.Setenv("PRODUCTIVITY_WEIGHT_URGENT", "5")
	t.Setenv("PRODUCTIVITY_WEIGHT_IMPORTANT", "4")
	t.Setenv("PRODUCTIVITY_WEIGHT_UNHURRIED", "not-a-number")
	t.Setenv("PRODUCTIVITY_SCHEDULE_INTERVAL_MS", "60000")
	t.Setenv("PRODUCTIVITY_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/productivity_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Database.Migrate {
		t.Error("expected migrate disabled")
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.Notion.BaseURL != "https://api.notion.com/v1/databases/abc/query" {
		t.Errorf("expected notion base URL, got '%s'", cfg.Notion.BaseURL)
	}
	if cfg.Notion.Headers["Authorization"] != "Bearer secret_xyz" {
		t.Errorf("expected bearer header, got '%s'", cfg.Notion.Headers["Authorization"])
	}
	if cfg.Notion.Headers["Notion-Version"] != "2022-06-28" {
		t.Errorf("expected notion version header, got '%s'", cfg.Notion.Headers["Notion-Version"])
	}
	if cfg.Scoring.Weights.Urgent != 5 || cfg.Scoring.Weights.Important != 4 {
		t.Errorf("expected weights from env, got %+v", cfg.Scoring.Weights)
	}
	if cfg.Scoring.Weights.Unhurried != 1 {
		t.Errorf("invalid env value should keep default, got %d", cfg.Scoring.Weights.Unhurried)
	}
	if cfg.ScheduleInterval() != time.Minute {
		t.Errorf("expected schedule interval 1m, got %v", cfg.ScheduleInterval())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 8800
notion:
  base_url: https://api.notion.com/v1/databases/db1/query
  headers:
    Authorization: Bearer file-token
    Notion-Version: "2022-06-28"
  priority_property: Priority
scoring:
  weights:
    urgent: 8
    important: 4
    unhurried: 2
  workers: 2
schedule:
  interval_ms: 300000
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8800 {
		t.Errorf("expected port 8800, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port kept, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Notion.Headers["Notion-Version"] != "2022-06-28" {
		t.Errorf("expected notion version from file, got %q", cfg.Notion.Headers["Notion-Version"])
	}
	if cfg.Notion.PriorityProperty != "Priority" {
		t.Errorf("expected priority property override, got %q", cfg.Notion.PriorityProperty)
	}
	if cfg.Notion.CompletedProperty != "Feito" {
		t.Errorf("expected completed property default kept, got %q", cfg.Notion.CompletedProperty)
	}
	if cfg.Scoring.Weights.Urgent != 8 || cfg.Scoring.Workers != 2 {
		t.Errorf("unexpected scoring config %+v", cfg.Scoring)
	}
	if cfg.ScheduleInterval() != 5*time.Minute {
		t.Errorf("expected 5m schedule, got %v", cfg.ScheduleInterval())
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
