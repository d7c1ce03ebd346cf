package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsToFileStorage(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageDriverFile {
		t.Fatalf("expected file driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Auth.AccessTokenTTLMinutes != 60*24 {
		t.Fatalf("expected 1440 minute ttl, got %d", cfg.Auth.AccessTokenTTLMinutes)
	}
}

func TestLoadPicksPostgresWhenDSNSet(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost:5432/expenses?sslmode=disable")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageDriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.Storage.Driver)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadRejectsPostgresWithoutDSN(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when dsn missing")
	}
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid REDIS_DB")
	}
}

func TestRequestTimeout(t *testing.T) {
	if got := (AppConfig{RequestTimeoutSeconds: 0}).RequestTimeout(); got != 0 {
		t.Fatalf("expected no timeout, got %s", got)
	}
	if got := (AppConfig{RequestTimeoutSeconds: 5}).RequestTimeout(); got != 5*time.Second {
		t.Fatalf("expected 5s, got %s", got)
	}
}
