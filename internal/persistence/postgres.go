package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/expense-service/internal/config"
	"github.com/spec-kit/expense-service/internal/repository"
)

// ExpenseDB is the Postgres-backed store for users and tickets.
type ExpenseDB struct {
	pool    *pgxpool.Pool
	users   repository.UserRepository
	tickets repository.TicketRepository
}

// OpenExpenseDB connects to Postgres, brings the schema up to date when
// POSTGRES_RUN_MIGRATIONS is set and returns the repositories over the pool.
func OpenExpenseDB(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*ExpenseDB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres storage needs POSTGRES_DSN")
	}

	if cfg.RunMigrations {
		if err := RunMigrations(cfg.DSN, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("expense store ready",
		zap.String("driver", config.StorageDriverPostgres),
		zap.Int32("max_conns", pool.Config().MaxConns))
	return &ExpenseDB{
		pool:    pool,
		users:   repository.NewUserRepository(pool),
		tickets: repository.NewTicketRepository(pool),
	}, nil
}

func poolConfig(cfg config.PostgresConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse POSTGRES_DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}
	return poolCfg, nil
}

// Users returns the user repository.
func (db *ExpenseDB) Users() repository.UserRepository { return db.users }

// Tickets returns the ticket repository.
func (db *ExpenseDB) Tickets() repository.TicketRepository { return db.tickets }

// Ping reports store readiness for /health/ready.
func (db *ExpenseDB) Ping(ctx context.Context) error {
	if db == nil || db.pool == nil {
		return errors.New("expense store not open")
	}
	return db.pool.Ping(ctx)
}

// Close releases pool resources.
func (db *ExpenseDB) Close() {
	if db != nil && db.pool != nil {
		db.pool.Close()
	}
}
