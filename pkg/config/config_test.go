package config

import (
	"testing"
	"time"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ASSETDESK_APP_ENV", "production")
	t.Setenv("ASSETDESK_APP_PORT", "9090")
	t.Setenv("ASSETDESK_DB_DRIVER", "sqlite")
	t.Setenv("ASSETDESK_DB_DSN", "file::memory:?cache=shared")
}

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected IsProd to be true")
	}
	if cfg.DB.Driver != DBDriverSQLite {
		t.Fatalf("unexpected db driver %q", cfg.DB.Driver)
	}
	if got := cfg.Alerts.OverdueAfter; got != 168*time.Hour {
		t.Fatalf("expected default overdue window of 7 days, got %v", got)
	}
	if cfg.QRExport.ImageSize != 256 {
		t.Fatalf("unexpected qr image size %d", cfg.QRExport.ImageSize)
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("ASSETDESK_DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestJWTExpirationFallback(t *testing.T) {
	cfg := JWTConfig{ExpirationMinutes: 0}
	if cfg.Expiration() != time.Hour {
		t.Fatalf("expected 1h fallback, got %v", cfg.Expiration())
	}
	cfg.ExpirationMinutes = 30
	if cfg.Expiration() != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", cfg.Expiration())
	}
}
