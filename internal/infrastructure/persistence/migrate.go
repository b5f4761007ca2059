package persistence

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"

	"portals_watcher/internal/domain"
	"portals_watcher/pkg/errcodes"
)

//go:embed schema.sql
var schemaSQL string

// Migrate создаёт таблицы subscriptions и seen_listings, если их ещё нет.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to apply schema")
	}
	return nil
}
