// Package config defines auctiond's configuration and its validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration. Fields are populated from a TOML file and
// then overridden by AUCTIOND_* environment variables.
type Config struct {
	Postgres  PostgresConfig  `toml:"postgres" envPrefix:"POSTGRES_"`
	Redis     RedisConfig     `toml:"redis" envPrefix:"REDIS_"`
	S3        S3Config        `toml:"s3" envPrefix:"S3_"`
	Store     StoreConfig     `toml:"store" envPrefix:"STORE_"`
	Bidding   BiddingConfig   `toml:"bidding" envPrefix:"BIDDING_"`
	Lifecycle LifecycleConfig `toml:"lifecycle" envPrefix:"LIFECYCLE_"`
	Archive   ArchiveConfig   `toml:"archive" envPrefix:"ARCHIVE_"`
	Server    ServerConfig    `toml:"server" envPrefix:"SERVER_"`
	Notify    NotifyConfig    `toml:"notify" envPrefix:"NOTIFY_"`
	Mode      string          `toml:"mode" env:"MODE"`
	LogLevel  string          `toml:"log_level" env:"LOG_LEVEL"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn" env:"DSN"`
	Host          string `toml:"host" env:"HOST"`
	Port          int    `toml:"port" env:"PORT"`
	Database      string `toml:"database" env:"DATABASE"`
	User          string `toml:"user" env:"USER"`
	Password      string `toml:"password" env:"PASSWORD"`
	SSLMode       string `toml:"ssl_mode" env:"SSL_MODE"`
	PoolMaxConns  int    `toml:"pool_max_conns" env:"POOL_MAX_CONNS"`
	PoolMinConns  int    `toml:"pool_min_conns" env:"POOL_MIN_CONNS"`
	RunMigrations bool   `toml:"run_migrations" env:"RUN_MIGRATIONS"`
}

// RedisConfig holds Redis connection parameters. Redis is optional: without
// it events are not streamed and bids are not rate limited.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled" env:"ENABLED"`
	Addr       string `toml:"addr" env:"ADDR"`
	Password   string `toml:"password" env:"PASSWORD"`
	DB         int    `toml:"db" env:"DB"`
	PoolSize   int    `toml:"pool_size" env:"POOL_SIZE"`
	MaxRetries int    `toml:"max_retries" env:"MAX_RETRIES"`
	TLSEnabled bool   `toml:"tls_enabled" env:"TLS_ENABLED"`
}

// S3Config holds the archive bucket parameters.
type S3Config struct {
	Endpoint             string `toml:"endpoint" env:"ENDPOINT"`
	Region               string `toml:"region" env:"REGION"`
	Bucket               string `toml:"bucket" env:"BUCKET"`
	AccessKey            string `toml:"access_key" env:"ACCESS_KEY"`
	SecretKey            string `toml:"secret_key" env:"SECRET_KEY"`
	UseSSL               bool   `toml:"use_ssl" env:"USE_SSL"`
	ForcePathStyle       bool   `toml:"force_path_style" env:"FORCE_PATH_STYLE"`
	MultipartThresholdMB int    `toml:"multipart_threshold_mb" env:"MULTIPART_THRESHOLD_MB"`
	PartSizeMB           int    `toml:"part_size_mb" env:"PART_SIZE_MB"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "postgres" or "memory".
	Driver      string   `toml:"driver" env:"DRIVER"`
	LockTimeout duration `toml:"lock_timeout" env:"LOCK_TIMEOUT"`
}

// BiddingConfig holds bid admission parameters.
type BiddingConfig struct {
	MinRatingPercent int      `toml:"min_rating_percent" env:"MIN_RATING_PERCENT"`
	HistoryLimit     int      `toml:"history_limit" env:"HISTORY_LIMIT"`
	MaxHistoryLimit  int      `toml:"max_history_limit" env:"MAX_HISTORY_LIMIT"`
	RateLimit        int      `toml:"rate_limit" env:"RATE_LIMIT"`
	RateWindow       duration `toml:"rate_window" env:"RATE_WINDOW"`
}

// LifecycleConfig holds anti-sniping defaults and finalizer scheduling.
type LifecycleConfig struct {
	ExtendWindow     duration `toml:"extend_window" env:"EXTEND_WINDOW"`
	ExtendBy         duration `toml:"extend_by" env:"EXTEND_BY"`
	SettingsTTL      duration `toml:"settings_ttl" env:"SETTINGS_TTL"`
	FinalizeInterval duration `toml:"finalize_interval" env:"FINALIZE_INTERVAL"`
	FinalizeBatch    int      `toml:"finalize_batch" env:"FINALIZE_BATCH"`
}

// ArchiveConfig schedules bid-ledger archival.
type ArchiveConfig struct {
	Enabled       bool   `toml:"enabled" env:"ENABLED"`
	Cron          string `toml:"cron" env:"CRON"`
	RetentionDays int    `toml:"retention_days" env:"RETENTION_DAYS"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            int      `toml:"port" env:"PORT"`
	CORSOrigins     []string `toml:"cors_origins" env:"CORS_ORIGINS"`
	AdminAPIKey     string   `toml:"admin_api_key" env:"ADMIN_API_KEY"`
	ShutdownTimeout duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token" env:"TELEGRAM_TOKEN"`
	TelegramChatID    string   `toml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	DiscordWebhookURL string   `toml:"discord_webhook_url" env:"DISCORD_WEBHOOK_URL"`
	SlackWebhookURL   string   `toml:"slack_webhook_url" env:"SLACK_WEBHOOK_URL"`
	Events            []string `toml:"events" env:"EVENTS"`
}

// duration wraps time.Duration so TOML and env values like "5m" decode.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the default values.
func Defaults() Config {
	return Config{
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "auctions",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  20,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:    true,
			Addr:       "localhost:6379",
			PoolSize:   20,
			MaxRetries: 3,
		},
		S3: S3Config{
			Endpoint:             "http://localhost:9000",
			Region:               "us-east-1",
			Bucket:               "auction-archive",
			ForcePathStyle:       true,
			MultipartThresholdMB: 20,
			PartSizeMB:           5,
		},
		Store: StoreConfig{
			Driver:      "postgres",
			LockTimeout: duration{3 * time.Second},
		},
		Bidding: BiddingConfig{
			MinRatingPercent: 80,
			HistoryLimit:     20,
			MaxHistoryLimit:  50,
			RateLimit:        10,
			RateWindow:       duration{time.Minute},
		},
		Lifecycle: LifecycleConfig{
			ExtendWindow:     duration{5 * time.Minute},
			ExtendBy:         duration{10 * time.Minute},
			SettingsTTL:      duration{5 * time.Minute},
			FinalizeInterval: duration{5 * time.Minute},
			FinalizeBatch:    500,
		},
		Archive: ArchiveConfig{
			Enabled:       true,
			Cron:          "0 3 * * *",
			RetentionDays: 30,
		},
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{"http://localhost:3000"},
			ShutdownTimeout: duration{10 * time.Second},
		},
		Notify: NotifyConfig{
			Events: []string{"order_created", "auction_no_winner", "outbid", "bidder_rejected", "order_status"},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"api":       true,
	"finalizer": true,
	"full":      true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for invalid or missing values and returns a combined
// error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: api, finalizer, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	switch c.Store.Driver {
	case "postgres":
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	case "memory":
		if strings.ToLower(c.Mode) != "full" {
			errs = append(errs, "store: the memory driver is only usable in full mode")
		}
	default:
		errs = append(errs, fmt.Sprintf("store: unknown driver %q (valid: postgres, memory)", c.Store.Driver))
	}
	if c.Store.LockTimeout.Duration < 0 {
		errs = append(errs, "store: lock_timeout must not be negative")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.Archive.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when archive is enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when archive is enabled")
		}
		if strings.TrimSpace(c.Archive.Cron) == "" {
			errs = append(errs, "archive: cron must not be empty when enabled")
		}
		if c.Archive.RetentionDays < 1 {
			errs = append(errs, "archive: retention_days must be >= 1")
		}
	}

	if c.Bidding.MinRatingPercent < 0 || c.Bidding.MinRatingPercent > 100 {
		errs = append(errs, fmt.Sprintf("bidding: min_rating_percent must be 0-100, got %d", c.Bidding.MinRatingPercent))
	}
	if c.Bidding.HistoryLimit < 1 || c.Bidding.MaxHistoryLimit < c.Bidding.HistoryLimit {
		errs = append(errs, "bidding: need 1 <= history_limit <= max_history_limit")
	}

	if c.Lifecycle.ExtendWindow.Duration <= 0 || c.Lifecycle.ExtendBy.Duration <= 0 {
		errs = append(errs, "lifecycle: extend_window and extend_by must be > 0")
	}
	if c.Lifecycle.FinalizeBatch < 1 {
		errs = append(errs, "lifecycle: finalize_batch must be >= 1")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
