package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func openPostgresDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("APP_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("set APP_TEST_POSTGRES_URL to run postgres tests")
	}
	db, err := OpenPostgres(url)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DROP TABLE IF EXISTS products`)
		_, _ = db.ExecContext(context.Background(), `DROP TABLE IF EXISTS users`)
		_ = db.Close()
	})
	return db
}
