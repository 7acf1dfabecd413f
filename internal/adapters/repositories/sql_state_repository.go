package repositories

import (
	"beat-planning-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLStateRepository stores the state blob in PostgreSQL.
type SQLStateRepository struct {
	DB  *sql.DB
	Key string
}

func NewSQLStateRepository(db *sql.DB, key string) *SQLStateRepository {
	return &SQLStateRepository{DB: db, Key: key}
}

func (s *SQLStateRepository) Load(ctx context.Context) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "state.sql.Load")(&err)

	if s.DB == nil {
		return nil, false, errors.New("state repository: db is nil")
	}

	q := `
	SELECT value
	FROM app_state
	WHERE key = $1;
	`
	var value string
	err = s.DB.QueryRowContext(ctx, q, s.Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state %q: query app_state table: %w", s.Key, err)
	}

	return []byte(value), true, nil
}

func (s *SQLStateRepository) Save(ctx context.Context, data []byte) (err error) {
	defer obs.Time(ctx, "state.sql.Save")(&err)

	if s.DB == nil {
		return errors.New("state repository: db is nil")
	}

	q := `
	INSERT INTO app_state (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.DB.ExecContext(ctx, q, s.Key, string(data)); err != nil {
		return fmt.Errorf("save state %q: %w", s.Key, err)
	}

	return nil
}

func (s *SQLStateRepository) Delete(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("state repository: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM app_state WHERE key = $1;`, s.Key); err != nil {
		return fmt.Errorf("delete state %q: %w", s.Key, err)
	}
	return nil
}

func (s *SQLStateRepository) UpdatedAt(ctx context.Context) (time.Time, bool, error) {
	if s.DB == nil {
		return time.Time{}, false, errors.New("state repository: db is nil")
	}

	var t time.Time
	err := s.DB.QueryRowContext(ctx, `SELECT updated_at FROM app_state WHERE key = $1;`, s.Key).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("state updated_at %q: %w", s.Key, err)
	}
	return t, true, nil
}
