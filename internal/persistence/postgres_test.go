package persistence

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/expense-service/internal/config"
)

func TestPoolConfigAppliesTuning(t *testing.T) {
	cfg, err := poolConfig(config.PostgresConfig{
		DSN:            "postgres://u:p@localhost:5432/expenses?sslmode=disable",
		MaxConns:       7,
		MinConns:       1,
		ConnMaxIdleSec: 15,
		ConnMaxLifeSec: 120,
	})
	if err != nil {
		t.Fatalf("pool config: %v", err)
	}
	if cfg.MaxConns != 7 || cfg.MinConns != 1 {
		t.Fatalf("unexpected pool sizes %d/%d", cfg.MaxConns, cfg.MinConns)
	}
	if cfg.MaxConnIdleTime != 15*time.Second || cfg.MaxConnLifetime != 2*time.Minute {
		t.Fatalf("unexpected lifetimes %v/%v", cfg.MaxConnIdleTime, cfg.MaxConnLifetime)
	}
}

func TestPoolConfigRejectsMalformedDSN(t *testing.T) {
	if _, err := poolConfig(config.PostgresConfig{DSN: "postgres://u:p@localhost:notaport/x"}); err == nil {
		t.Fatal("expected error for malformed dsn")
	}
}

func TestOpenExpenseDBRequiresDSN(t *testing.T) {
	if _, err := OpenExpenseDB(context.Background(), config.PostgresConfig{}, zap.NewNop()); err == nil {
		t.Fatal("expected error without dsn")
	}
}
