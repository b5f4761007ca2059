package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/patrickmn/go-cache"

	"portals_watcher/internal/domain"
	"portals_watcher/pkg/errcodes"
)

const (
	seenCacheTTL     = time.Hour
	seenCacheCleanup = 10 * time.Minute
)

// SeenListingRepository — журнал уже обработанных лотов.
//
// Записи только добавляются, поэтому кэш хранит лишь положительные ответы:
// промах кэша всегда проверяется в БД.
type SeenListingRepository struct {
	db    *sqlx.DB
	known *cache.Cache
}

func NewSeenListingRepository(db *sqlx.DB) *SeenListingRepository {
	return &SeenListingRepository{
		db:    db,
		known: cache.New(seenCacheTTL, seenCacheCleanup),
	}
}

// MarkSeen атомарно добавляет лот в журнал. inserted == true означает, что
// именно этот вызов занёс запись; повторная вставка ошибкой не считается.
func (r *SeenListingRepository) MarkSeen(ctx context.Context, listingID string) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO seen_listings (listing_id, seen_at)
		VALUES (?, ?)
		ON CONFLICT (listing_id) DO NOTHING`)

	res, err := r.db.ExecContext(ctx, query, listingID, time.Now().UTC())
	if err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to mark listing seen")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	r.known.SetDefault(listingID, struct{}{})

	return rows > 0, nil
}

// IsSeen проверяет, обрабатывался ли лот ранее.
func (r *SeenListingRepository) IsSeen(ctx context.Context, listingID string) (bool, error) {
	if _, found := r.known.Get(listingID); found {
		return true, nil
	}

	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM seen_listings WHERE listing_id = ?)`)

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, listingID); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check listing")
	}

	if exists {
		r.known.SetDefault(listingID, struct{}{})
	}

	return exists, nil
}
