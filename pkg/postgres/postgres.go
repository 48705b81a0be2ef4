package postgres

import (
	"context"
	"fmt"

	"expense-tracker/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const transactionsSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          BIGSERIAL PRIMARY KEY,
	type        TEXT NOT NULL CHECK (type IN ('income', 'expense')),
	category    TEXT NOT NULL,
	amount      DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
	date        TEXT NOT NULL,
	description TEXT
)`

func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
	)

	return pool, nil
}

// EnsureSchema creates the transactions table when it does not exist yet.
// Column constraints live in the table so the store rejects bad rows even
// if a caller bypasses service validation.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if _, err := pool.Exec(ctx, transactionsSchema); err != nil {
		return fmt.Errorf("failed to create transactions table: %w", err)
	}

	logger.Info("Transactions table ready")
	return nil
}
