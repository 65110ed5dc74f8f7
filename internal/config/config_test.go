package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("LEXORA_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.JWT.AccessTTL != time.Hour || cfg.JWT.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected TTLs: %v %v", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	}
	if cfg.RateLimit.Window != time.Minute || cfg.RateLimit.MaxRequests != 120 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.DocumentKey() != nil {
		t.Fatal("no key configured, DocumentKey must be nil")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LEXORA_JWT_SECRET", "test-secret")
	t.Setenv("LEXORA_SERVER_ADDR", ":9090")
	t.Setenv("LEXORA_JWT_ACCESS_TTL", "30m")
	t.Setenv("LEXORA_RATELIMIT_MAX_REQUESTS", "10")
	t.Setenv("LEXORA_DOCUMENTS_ENCRYPTION_KEY", strings.Repeat("ab", 32))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.JWT.AccessTTL != 30*time.Minute {
		t.Fatalf("unexpected access ttl: %v", cfg.JWT.AccessTTL)
	}
	if cfg.RateLimit.MaxRequests != 10 {
		t.Fatalf("unexpected max requests: %d", cfg.RateLimit.MaxRequests)
	}
	key := cfg.DocumentKey()
	if len(key) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(key))
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("LEXORA_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestLoadRejectsBadDocumentKey(t *testing.T) {
	t.Setenv("LEXORA_JWT_SECRET", "test-secret")

	t.Setenv("LEXORA_DOCUMENTS_ENCRYPTION_KEY", "not-hex")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-hex key")
	}

	t.Setenv("LEXORA_DOCUMENTS_ENCRYPTION_KEY", "abcd")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for short key")
	}
}
