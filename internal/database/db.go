package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slinet/ehfetch/internal/config"
	"go.uber.org/zap"
)

var pool *pgxpool.Pool

// Init initializes the database connection pool and makes sure the
// daemon's tables exist
func Init(cfg *config.DatabaseConfig, logger *zap.Logger) error {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("unable to parse database config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	if err := ensureSchema(ctx); err != nil {
		return fmt.Errorf("unable to ensure schema: %w", err)
	}

	logger.Info("database connection pool initialized",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
	)

	return nil
}

// ensureSchema creates the daemon's tables when missing
func ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS download (
			gid BIGINT PRIMARY KEY,
			token TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT '',
			state INT NOT NULL DEFAULT 0,
			pages INT NOT NULL DEFAULT 0,
			finished INT NOT NULL DEFAULT 0,
			tags JSONB NOT NULL DEFAULT '[]'::jsonb,
			added TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS local_favorite (
			gid BIGINT PRIMARY KEY,
			token TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			added TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS comment_filter (
			id SERIAL PRIMARY KEY,
			kind TEXT NOT NULL CHECK (kind IN ('commenter', 'comment')),
			pattern TEXT NOT NULL,
			is_regex BOOLEAN NOT NULL DEFAULT false
		)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetPool returns the database connection pool
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}
