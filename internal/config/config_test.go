package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "access-secret-at-least-16-chars")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "refresh-secret-at-least-16-chars")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.AccessTokenTTL() != 60*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 1h", cfg.AccessTokenTTL())
	}
	if cfg.RefreshTokenTTL() != 10080*time.Minute {
		t.Errorf("RefreshTokenTTL = %v, want 7d", cfg.RefreshTokenTTL())
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without JWT secrets")
	}
}

func TestLoad_IdenticalSecretsRejected(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "same-secret-for-both-token-kinds")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "same-secret-for-both-token-kinds")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject identical access and refresh secrets")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.AccessTokenTTL() != 5*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 5m", cfg.AccessTokenTTL())
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want two entries", cfg.CORSOrigins)
	}
}

func TestLoad_NonPositiveExpiry(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a zero access token expiry")
	}
}
