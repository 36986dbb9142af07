package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Dispatch.RateLimitWindow != 30*time.Minute {
		t.Errorf("expected 30m window, got %s", cfg.Dispatch.RateLimitWindow)
	}
	if cfg.Dispatch.PayoutAmount != 100 {
		t.Errorf("expected payout 100, got %d", cfg.Dispatch.PayoutAmount)
	}
	if cfg.Feed.Schedule != "@every 5m" {
		t.Errorf("expected default schedule, got %q", cfg.Feed.Schedule)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_WINDOW", "10m")
	t.Setenv("PAYOUT_AMOUNT", "250")
	t.Setenv("INGEST_ENABLED", "false")
	t.Setenv("MAIL_API_KEY", "re_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Dispatch.RateLimitWindow != 10*time.Minute {
		t.Errorf("expected 10m window, got %s", cfg.Dispatch.RateLimitWindow)
	}
	if cfg.Dispatch.PayoutAmount != 250 {
		t.Errorf("expected payout 250, got %d", cfg.Dispatch.PayoutAmount)
	}
	if cfg.Feed.Enabled {
		t.Error("expected ingestion disabled")
	}
	if cfg.Mail.APIKey != "re_test" {
		t.Errorf("expected api key from env, got %q", cfg.Mail.APIKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad port", "SERVER_PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"zero payout", "PAYOUT_AMOUNT", "0"},
		{"zero concurrency", "DISPATCH_CONCURRENCY", "0"},
		{"zero rate limit window", "RATE_LIMIT_WINDOW", "0s"},
		{"negative rate limit window", "RATE_LIMIT_WINDOW", "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
