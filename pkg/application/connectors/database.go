package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"portals_watcher/pkg/logx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

//nolint:gochecknoinits
func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Database lazily opens a pooled sqlx connection for the configured driver.
type Database struct {
	value           *sqlx.DB
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
}

func (d *Database) Client(ctx context.Context) *sqlx.DB {
	d.init.Do(func() {
		d.value = lo.Must(d.Connect(ctx))
	})

	return d.value
}

// Connect opens the pool without panicking. Client wraps it with lo.Must for
// the startup path.
func (d *Database) Connect(ctx context.Context) (*sqlx.DB, error) {
	if d.Driver == DriverSQLite {
		if err := ensureSQLiteDir(d.DSN); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.ConnectContext(ctx, d.Driver, d.DSN)
	if err != nil {
		return nil, err
	}

	maxOpen, maxIdle, lifetime := d.MaxOpenConns, d.MaxIdleConns, d.ConnMaxLifetime
	if d.Driver == DriverSQLite {
		// SQLite serialises writers; one long-lived connection avoids SQLITE_BUSY.
		maxOpen, maxIdle, lifetime = 1, 1, 0
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	d.value = db

	logger(ctx).Info(
		"database connected",
		slog.String("driver", d.Driver),
		slog.Int("max-open-conns", maxOpen),
	)

	return db, nil
}

// ensureSQLiteDir creates the parent directory of a file-backed sqlite DSN.
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	path, _, _ = strings.Cut(path, "?")

	if path == "" || path == ":memory:" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	return nil
}

func (d *Database) Close(ctx context.Context) {
	if d.value == nil {
		return
	}

	if err := d.value.Close(); err != nil {
		logger(ctx).Error("database.Close", logx.Error(err))
	}

	logger(ctx).Info("database disconnected", slog.String("driver", d.Driver))
}
