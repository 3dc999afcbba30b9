package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAMLWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: "8001"
auth:
  secret: "yaml-secret-long-enough"
  token_ttl: "2h"
cors:
  allowed_origins: ["http://localhost:3000"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8001" {
		t.Fatalf("expected port from yaml, got %q", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("expected redis addr from env, got %q", cfg.Redis.Addr)
	}
	if got := cfg.AllowedOrigins(); len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", got)
	}
	if d := TTLDuration(cfg.Auth.TokenTTL, time.Hour); d != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", d)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret-long-enough")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Secret != "env-secret-long-enough" {
		t.Fatalf("expected secret from env, got %q", cfg.Auth.Secret)
	}
	if got := cfg.AllowedOrigins(); len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected wildcard origin, got %v", got)
	}
}

func TestValidateRejectsShortSecret(t *testing.T) {
	var cfg Config
	cfg.Auth.Secret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %v", d)
	}
	if d := TTLDuration("nonsense", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback for bad input, got %v", d)
	}
}

func TestValidateRejectsNonPositiveTokenTTL(t *testing.T) {
	for _, ttl := range []string{"0", "0s", "-1h", "soon"} {
		var cfg Config
		cfg.Auth.Secret = "a-secret-long-enough"
		cfg.Auth.TokenTTL = ttl
		if err := cfg.Validate(); err == nil {
			t.Fatalf("ttl %q: expected validation error", ttl)
		}
		if d := TTLDuration(ttl, time.Hour); d != time.Hour {
			t.Fatalf("ttl %q: expected fallback, got %v", ttl, d)
		}
	}
}
