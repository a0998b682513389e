package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"purpose-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// schemaStatements create the tables the workers write to. Each is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS score_results (
		id           UUID PRIMARY KEY,
		candidate_id TEXT NOT NULL UNIQUE,
		total_score  INTEGER NOT NULL,
		tier         TEXT NOT NULL,
		payload      JSONB NOT NULL,
		computed_at  TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_score_results_tier ON score_results (tier)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id            BIGSERIAL PRIMARY KEY,
		event_type    TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT NOT NULL,
		details       JSONB,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
}

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client. No connection is made until
// the first query or Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the result and audit tables when missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
