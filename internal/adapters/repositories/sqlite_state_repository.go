package repositories

import (
	"beat-planning-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StateStore is a ports.StateRepository that can also drop its blob and
// report when it was last written.
type StateStore interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
	UpdatedAt(ctx context.Context) (time.Time, bool, error)
}

// SQLite-backed implementation of the StateRepository port. The state
// lives in one app_state row under Key.
type SqliteStateRepository struct {
	DB  *sql.DB
	Key string
}

func NewSqliteStateRepository(db *sql.DB, key string) *SqliteStateRepository {
	return &SqliteStateRepository{DB: db, Key: key}
}

func (s *SqliteStateRepository) Load(ctx context.Context) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "state.sqlite.Load")(&err)

	if s.DB == nil {
		return nil, false, errors.New("sqlite state repository: DB is nil")
	}

	query := `
	SELECT value
	FROM app_state
	WHERE key = ?;
	`
	var value string
	err = s.DB.QueryRowContext(ctx, query, s.Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state %q: query app_state table: %w", s.Key, err)
	}

	return []byte(value), true, nil
}

func (s *SqliteStateRepository) Save(ctx context.Context, data []byte) (err error) {
	defer obs.Time(ctx, "state.sqlite.Save")(&err)

	if s.DB == nil {
		return errors.New("sqlite state repository: DB is nil")
	}

	query := `
	INSERT OR REPLACE INTO app_state (
		key,
		value,
		updated_at
	)
	VALUES (?, ?, ?);
	`
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.DB.ExecContext(ctx, query, s.Key, string(data), now); err != nil {
		return fmt.Errorf("save state %q: %w", s.Key, err)
	}

	return nil
}

func (s *SqliteStateRepository) Delete(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("sqlite state repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?;`, s.Key); err != nil {
		return fmt.Errorf("delete state %q: %w", s.Key, err)
	}
	return nil
}

func (s *SqliteStateRepository) UpdatedAt(ctx context.Context) (time.Time, bool, error) {
	if s.DB == nil {
		return time.Time{}, false, errors.New("sqlite state repository: DB is nil")
	}

	var raw string
	err := s.DB.QueryRowContext(ctx, `SELECT updated_at FROM app_state WHERE key = ?;`, s.Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("state updated_at %q: %w", s.Key, err)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("state updated_at %q: parse %q: %w", s.Key, raw, err)
	}
	return t, true, nil
}
