package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/talesoul")
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("AUTH_RATE_WINDOW", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 30m", cfg.AccessTokenTTL)
	}
	if cfg.Algorithm != "HS256" {
		t.Errorf("Algorithm = %q, want HS256", cfg.Algorithm)
	}
	if cfg.AuthRateWindow != time.Minute {
		t.Errorf("AuthRateWindow = %v, want 1m", cfg.AuthRateWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/talesoul")
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "90")
	t.Setenv("BOOKING_PENDING_GRACE", "2h")
	t.Setenv("CERTIFICATES_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessTokenTTL != 90*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 90m", cfg.AccessTokenTTL)
	}
	if cfg.BookingPendingGrace != 2*time.Hour {
		t.Errorf("BookingPendingGrace = %v, want 2h", cfg.BookingPendingGrace)
	}
	if !cfg.CertificatesEnabled {
		t.Error("CertificatesEnabled = false, want true")
	}
}

func TestValidateRequiresSecrets(t *testing.T) {
	cfg := &Config{AccessTokenTTL: time.Minute}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL and SECRET_KEY")
	}

	cfg = &Config{DatabaseURL: "x", SecretKey: "y", AccessTokenTTL: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive token ttl")
	}
}
