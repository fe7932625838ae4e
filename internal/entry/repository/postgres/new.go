package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver

	"energy-accounting-bot/internal/entry/repository"
	"energy-accounting-bot/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a PostgreSQL-backed Repository for the entry domain.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("entry/repository/postgres: db is required")
	}
	return &implRepository{db: db, l: l}
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the entry tables and their lookup indexes if absent.
func Migrate(ctx context.Context, db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS energy_entries (
			id UUID PRIMARY KEY,
			tg_user_id BIGINT NOT NULL,
			audit_tg_user_name TEXT NOT NULL,
			tg_group_id BIGINT NOT NULL,
			audit_tg_group_name TEXT NOT NULL,
			hours DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_energy_entries_tg_user_id ON energy_entries (tg_user_id);
		CREATE INDEX IF NOT EXISTS idx_energy_entries_tg_group_id ON energy_entries (tg_group_id);
		CREATE TABLE IF NOT EXISTS entry_tasks (
			id UUID PRIMARY KEY,
			entry_id UUID NOT NULL REFERENCES energy_entries (id),
			position INT NOT NULL,
			description TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entry_tasks_entry_id ON entry_tasks (entry_id);`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// dsn returns a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("entry/repository/postgres.%s", method)
}
