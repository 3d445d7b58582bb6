package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Notion   NotionConfig   `yaml:"notion"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit"`
}

type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Migrate bool   `yaml:"migrate"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

// NotionConfig holds the Notion client settings. BaseURL and Headers are only
// used when the parameters table has no entry for them.
type NotionConfig struct {
	BaseURL           string            `yaml:"base_url"`
	Headers           map[string]string `yaml:"headers"`
	CompletedProperty string            `yaml:"completed_property"`
	PriorityProperty  string            `yaml:"priority_property"`
	PageSize          int               `yaml:"page_size"`
	TimeoutMs         int               `yaml:"timeout_ms"`
	Breaker           BreakerConfig     `yaml:"breaker"`
}

type BreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failure_threshold"`
	OpenTimeoutMs    int    `yaml:"open_timeout_ms"`
	HalfOpenRequests uint32 `yaml:"half_open_requests"`
}

type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`
	Workers int            `yaml:"workers"`
}

type ScoringWeights struct {
	Urgent    int `yaml:"urgent"`
	Important int `yaml:"important"`
	Unhurried int `yaml:"unhurried"`
}

type ScheduleConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) NotionTimeout() time.Duration {
	return time.Duration(c.Notion.TimeoutMs) * time.Millisecond
}

func (c *Config) BreakerOpenTimeout() time.Duration {
	return time.Duration(c.Notion.Breaker.OpenTimeoutMs) * time.Millisecond
}

func (c *Config) ScheduleInterval() time.Duration {
	return time.Duration(c.Schedule.IntervalMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Database: DatabaseConfig{
			Migrate: true,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Notion: NotionConfig{
			CompletedProperty: "Feito",
			PriorityProperty:  "Prioridade",
			PageSize:          100,
			TimeoutMs:         10000,
			Breaker: BreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				OpenTimeoutMs:    30000,
				HalfOpenRequests: 1,
			},
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Urgent:    3,
				Important: 2,
				Unhurried: 1,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PRODUCTIVITY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("PRODUCTIVITY_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("PRODUCTIVITY_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("PRODUCTIVITY_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PRODUCTIVITY_DATABASE_MIGRATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Database.Migrate = b
		}
	}
	if v := os.Getenv("PRODUCTIVITY_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("PRODUCTIVITY_NOTION_BASE_URL"); v != "" {
		cfg.Notion.BaseURL = v
	}
	if v := os.Getenv("PRODUCTIVITY_NOTION_TOKEN"); v != "" {
		if cfg.Notion.Headers == nil {
			cfg.Notion.Headers = make(map[string]string)
		}
		cfg.Notion.Headers["Authorization"] = "Bearer " + v
	}
	if v := os.Getenv("PRODUCTIVITY_NOTION_VERSION"); v != "" {
		if cfg.Notion.Headers == nil {
			cfg.Notion.Headers = make(map[string]string)
		}
		cfg.Notion.Headers["Notion-Version"] = v
	}
	if v := os.Getenv("PRODUCTIVITY_WEIGHT_URGENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.Weights.Urgent = n
		}
	}
	if v := os.Getenv("PRODUCTIVITY_WEIGHT_IMPORTANT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.Weights.Important = n
		}
	}
	if v := os.Getenv("PRODUCTIVITY_WEIGHT_UNHURRIED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.Weights.Unhurried = n
		}
	}
	if v := os.Getenv("PRODUCTIVITY_SCHEDULE_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.IntervalMs = n
		}
	}
	if v := os.Getenv("PRODUCTIVITY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
