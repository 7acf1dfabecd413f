package repositories

import (
	"beat-planning-service/internal/platform/db"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema for the given dialect.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	var createStateQuery string
	switch dialect {
	case db.SQLite:
		createStateQuery = `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	case db.Postgres:
		createStateQuery = `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	default:
		return fmt.Errorf("init schema: unknown dialect %q", dialect)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		createStateQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// NewStateRepository returns the state repository matching dialect.
func NewStateRepository(conn *sql.DB, dialect db.Dialect, key string) (StateStore, error) {
	switch dialect {
	case db.SQLite:
		return NewSqliteStateRepository(conn, key), nil
	case db.Postgres:
		return NewSQLStateRepository(conn, key), nil
	default:
		return nil, fmt.Errorf("new state repository: unknown dialect %q", dialect)
	}
}
