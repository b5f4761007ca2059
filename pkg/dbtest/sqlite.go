package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"portals_watcher/pkg/application/connectors"
)

// SQLitePath returns a fresh database file path inside the test temp dir.
func SQLitePath(tb testing.TB) string {
	tb.Helper()

	return filepath.Join(tb.TempDir(), "watcher.db")
}

// OpenSQLite opens a file-backed sqlite database at path and closes it when
// the test ends. Reopening the same path observes previously written rows.
func OpenSQLite(tb testing.TB, path string) *sqlx.DB {
	tb.Helper()

	database := &connectors.Database{
		Driver: connectors.DriverSQLite,
		DSN:    "file:" + path + "?_pragma=busy_timeout(5000)",
	}

	db, err := database.Connect(context.Background())
	require.NoError(tb, err)

	tb.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
