package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the explicit configuration object built once at startup and
// passed into component constructors. Components never read process-wide
// settings directly.
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	HTTP      HTTPConfig      `mapstructure:"http" yaml:"http"`
	Collect   CollectConfig   `mapstructure:"collect" yaml:"collect"`
	NLP       NLPConfig       `mapstructure:"nlp" yaml:"nlp"`
	Search    SearchConfig    `mapstructure:"search" yaml:"search"`
	Worker    WorkerConfig    `mapstructure:"worker" yaml:"worker"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// DatabaseConfig points at the MySQL content store.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// RedisConfig points at the task-queue broker.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	QueueKey string `mapstructure:"queue_key" yaml:"queue_key"`
}

// HTTPConfig is shared by every outbound HTTP client (adapters, search).
type HTTPConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	RatePerHost  float64       `mapstructure:"rate_per_host" yaml:"rate_per_host"`
	Burst        int           `mapstructure:"burst" yaml:"burst"`
}

// CollectConfig controls ingestion defaults.
type CollectConfig struct {
	DefaultMaxItems int `mapstructure:"default_max_items" yaml:"default_max_items"`
}

// NLPConfig selects the claim annotator capability.
type NLPConfig struct {
	// Provider: "" (degraded mode), "heuristic", or "openai".
	Provider string        `mapstructure:"provider" yaml:"provider"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key"`
	Model    string        `mapstructure:"model" yaml:"model"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SearchConfig selects the external search capability.
type SearchConfig struct {
	// Provider: "" (disabled), "google", or "bing".
	Provider       string        `mapstructure:"provider" yaml:"provider"`
	GoogleAPIKey   string        `mapstructure:"google_api_key" yaml:"google_api_key"`
	GoogleEngineID string        `mapstructure:"google_engine_id" yaml:"google_engine_id"`
	BingAPIKey     string        `mapstructure:"bing_api_key" yaml:"bing_api_key"`
	Language       string        `mapstructure:"language" yaml:"language"`
	MaxResults     int           `mapstructure:"max_results" yaml:"max_results"`
	RatePerSecond  float64       `mapstructure:"rate_per_second" yaml:"rate_per_second"`
	Burst          int           `mapstructure:"burst" yaml:"burst"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// WorkerConfig controls the queue worker.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// SchedulerConfig controls the per-source schedule poller.
type SchedulerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Database: DatabaseConfig{
			DSN: "veridex:veridex@tcp(127.0.0.1:3306)/veridex?parseTime=true&charset=utf8mb4",
		},
		Redis: RedisConfig{
			Addr:     "127.0.0.1:6379",
			QueueKey: "veridex:tasks",
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Veridex/1.0 (+https://github.com/veridex/veridex)",
			MaxBodyBytes: 2_000_000,
			RatePerHost:  1.0,
			Burst:        3,
		},
		Collect: CollectConfig{DefaultMaxItems: 20},
		NLP: NLPConfig{
			Provider: "heuristic",
			Model:    "gpt-4o-mini",
			Timeout:  30 * time.Second,
		},
		Search: SearchConfig{
			Language:      "hu",
			MaxResults:    10,
			RatePerSecond: 1.0,
			Burst:         2,
			CacheTTL:      15 * time.Minute,
		},
		Worker:    WorkerConfig{Concurrency: 4},
		Scheduler: SchedulerConfig{PollInterval: time.Minute},
	}
}

// Load materializes the configuration from viper (config file plus
// VERIDEX_* environment variables) on top of the defaults.
func Load() (*Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
