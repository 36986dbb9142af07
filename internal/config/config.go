package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	GRPC     GRPCConfig
	Feed     FeedConfig
	Mail     MailConfig
	Dispatch DispatchConfig
	DB       DatabaseConfig
	Logging  LoggingConfig
}

type GRPCConfig struct {
	Port int
}

type ServerConfig struct {
	Host      string
	Port      int
	RateLimit int // requests per second across all clients
}

type FeedConfig struct {
	Enabled   bool
	URL       string
	UserAgent string // api.weather.gov rejects requests without one
	Schedule  string // cron spec, e.g. "@every 5m"
}

type MailConfig struct {
	APIURL string
	APIKey string
	From   string
}

type DispatchConfig struct {
	RateLimitWindow time.Duration
	PayoutAmount    int64
	Concurrency     int
	ZipTablePath    string // optional YAML table, built-in table when empty
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvInt("SERVER_PORT", 8080),
			RateLimit: getEnvInt("HTTP_RATE_LIMIT", 5),
		},
		GRPC: GRPCConfig{
			Port: getEnvInt("GRPC_PORT", 50051),
		},
		Feed: FeedConfig{
			Enabled:   getEnvBool("INGEST_ENABLED", true),
			URL:       getEnv("FEED_URL", "https://api.weather.gov/alerts/active?area=LA"),
			UserAgent: getEnv("FEED_USER_AGENT", "go-disaster-relief (ops@example.com)"),
			Schedule:  getEnv("INGEST_SCHEDULE", "@every 5m"),
		},
		Mail: MailConfig{
			APIURL: getEnv("MAIL_API_URL", "https://api.resend.com/emails"),
			APIKey: getEnv("MAIL_API_KEY", ""),
			From:   getEnv("MAIL_FROM", "Disaster Relief <alerts@example.com>"),
		},
		Dispatch: DispatchConfig{
			RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 30*time.Minute),
			PayoutAmount:    int64(getEnvInt("PAYOUT_AMOUNT", 100)),
			Concurrency:     getEnvInt("DISPATCH_CONCURRENCY", 8),
			ZipTablePath:    getEnv("ZIP_TABLE_PATH", ""),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/disaster-relief.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.GRPC.Port < 1 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("HTTP rate limit must be at least 1 req/s")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Feed.URL == "" {
		return fmt.Errorf("feed URL is required")
	}
	if c.Feed.Schedule == "" {
		return fmt.Errorf("ingest schedule is required")
	}
	if c.Mail.From == "" {
		return fmt.Errorf("mail sender is required")
	}
	// MAIL_API_KEY is checked by every ingestion and simulation, see mailer.ErrMissingAPIKey.

	if c.Dispatch.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	if c.Dispatch.PayoutAmount <= 0 {
		return fmt.Errorf("payout amount must be positive")
	}
	if c.Dispatch.Concurrency < 1 {
		return fmt.Errorf("dispatch concurrency must be at least 1")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
