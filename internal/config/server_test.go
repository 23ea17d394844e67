package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/ledger?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.LockTimeout != 5*time.Second {
		t.Fatalf("LockTimeout = %v, want 5s", cfg.LockTimeout)
	}
	if !cfg.AutoMigrate || !cfg.MetricsEnabled {
		t.Fatalf("expected migrations and metrics enabled by default: %+v", cfg)
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/ledger?sslmode=disable")
	t.Setenv("LOCK_TIMEOUT", "750ms")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.LockTimeout != 750*time.Millisecond {
		t.Fatalf("LockTimeout = %v, want 750ms", cfg.LockTimeout)
	}
	if cfg.AutoMigrate {
		t.Fatal("AutoMigrate = true, want false")
	}
}

func TestLoadAppRejectsNonPositiveLockTimeout(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/ledger?sslmode=disable")
	t.Setenv("LOCK_TIMEOUT", "0s")

	if _, err := LoadApp(); err == nil {
		t.Fatal("LoadApp() expected error for zero lock timeout")
	}
}

func TestLoadCLIDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := LoadCLI()
	if err != nil {
		t.Fatalf("LoadCLI() error = %v", err)
	}
	if cfg.RetryMaxElapsed != 10*time.Second {
		t.Fatalf("RetryMaxElapsed = %v, want 10s", cfg.RetryMaxElapsed)
	}
}
