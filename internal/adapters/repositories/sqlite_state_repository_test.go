package repositories

import (
	"beat-planning-service/internal/platform/db"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn, db.SQLite))
	return conn
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	assert.NoError(t, InitSchema(context.Background(), conn, db.SQLite))
}

func TestInitSchemaUnknownDialect(t *testing.T) {
	conn := openTestDB(t)
	assert.Error(t, InitSchema(context.Background(), conn, db.Dialect("oracle")))
}

func TestSqliteStateRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSqliteStateRepository(openTestDB(t), "beat-planning-store")

	_, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = repo.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	before := time.Now().Add(-time.Second)
	require.NoError(t, repo.Save(ctx, []byte(`{"state":{"routes":[]},"version":0}`)))
	require.NoError(t, repo.Save(ctx, []byte(`{"state":{"routes":[{"id":"r"}]},"version":0}`)))

	data, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"state":{"routes":[{"id":"r"}]},"version":0}`, string(data))

	ts, found, err := repo.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, ts.After(before))

	require.NoError(t, repo.Delete(ctx))
	_, found, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSqliteStateRepositoryKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	a := NewSqliteStateRepository(conn, "a")
	b := NewSqliteStateRepository(conn, "b")

	require.NoError(t, a.Save(ctx, []byte(`1`)))

	_, found, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewStateRepository(t *testing.T) {
	conn := openTestDB(t)

	repo, err := NewStateRepository(conn, db.SQLite, "k")
	require.NoError(t, err)
	assert.IsType(t, &SqliteStateRepository{}, repo)

	repo, err = NewStateRepository(conn, db.Postgres, "k")
	require.NoError(t, err)
	assert.IsType(t, &SQLStateRepository{}, repo)

	_, err = NewStateRepository(conn, "", "k")
	assert.Error(t, err)
}

func TestNilDB(t *testing.T) {
	_, _, err := (&SqliteStateRepository{}).Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, InitSchema(context.Background(), nil, db.SQLite))
}
