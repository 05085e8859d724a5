package config

import (
	"testing"
	"time"
)

func TestLoad_BackendURLSet_ReturnsConfig(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8000/api/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.BackendURL != "http://localhost:8000/api/v1" {
		t.Errorf("BackendURL = %q, want %q", cfg.BackendURL, "http://localhost:8000/api/v1")
	}
}

func TestLoad_BackendURLMissing_ReturnsError(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when BACKEND_URL is not set")
	}
}

func TestLoad_BackendURLWithoutScheme_ReturnsError(t *testing.T) {
	t.Setenv("BACKEND_URL", "localhost:8000")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for BACKEND_URL without scheme")
	}
}

func TestLoad_TrailingSlashTrimmed(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8000/api/v1/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.BackendURL != "http://localhost:8000/api/v1" {
		t.Errorf("BackendURL = %q, want trailing slash trimmed", cfg.BackendURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8000/api/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, 10*time.Second)
	}
	if cfg.CredStore != "file" {
		t.Errorf("CredStore = %q, want %q", cfg.CredStore, "file")
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.LoginRateLimit != 10 {
		t.Errorf("LoginRateLimit = %d, want %d", cfg.LoginRateLimit, 10)
	}
	if cfg.LoginRateBurst != 5 {
		t.Errorf("LoginRateBurst = %d, want %d", cfg.LoginRateBurst, 5)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://parts.example.com/api/v1")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("CRED_STORE", "redis")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, 30*time.Second)
	}
	if cfg.CredStore != "redis" {
		t.Errorf("CredStore = %q, want %q", cfg.CredStore, "redis")
	}
	if cfg.RedisAddr != "redis:6380" {
		t.Errorf("RedisAddr = %q, want %q", cfg.RedisAddr, "redis:6380")
	}
	if cfg.RedisDB != 2 {
		t.Errorf("RedisDB = %d, want %d", cfg.RedisDB, 2)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "9090")
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true")
	}
}

func TestLoad_InvalidCredStore_ReturnsError(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8000/api/v1")
	t.Setenv("CRED_STORE", "dynamo")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for unsupported CRED_STORE")
	}
}

func TestLoad_InvalidOptionalValues_FallBackToDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8000/api/v1")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("LOGIN_RATE_LIMIT", "many")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want default %v", cfg.RequestTimeout, 10*time.Second)
	}
	if cfg.LoginRateLimit != 10 {
		t.Errorf("LoginRateLimit = %d, want default %d", cfg.LoginRateLimit, 10)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should fall back to false")
	}
}
