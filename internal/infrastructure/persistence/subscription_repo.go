package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"portals_watcher/internal/domain"
	"portals_watcher/internal/domain/entity"
	"portals_watcher/internal/domain/value"
	"portals_watcher/pkg/errcodes"
	"portals_watcher/pkg/lox"
)

// SubscriptionRepository хранит пары (пользователь, коллекция) → порог скидки.
// Каждый метод — один SQL-запрос, поэтому операции атомарны для
// конкурентных вызовов из бота и воркера.
type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Add создаёт подписку или перезаписывает порог существующей.
// Порог не валидируется: это делает вызывающий код.
func (r *SubscriptionRepository) Add(ctx context.Context, sub entity.Subscription) error {
	schema := fromSubscription(sub)
	schema.Collection = value.NormalizeCollection(schema.Collection)
	if schema.UpdatedAt.IsZero() {
		schema.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO subscriptions (user_id, collection, threshold_pct, updated_at)
		VALUES (:user_id, :collection, :threshold_pct, :updated_at)
		ON CONFLICT (user_id, collection) DO UPDATE SET
			threshold_pct = excluded.threshold_pct,
			updated_at = excluded.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert subscription")
	}

	return nil
}

// Remove удаляет подписку и сообщает, существовала ли она.
func (r *SubscriptionRepository) Remove(ctx context.Context, userID int64, collection string) (bool, error) {
	query := r.db.Rebind(`DELETE FROM subscriptions WHERE user_id = ? AND collection = ?`)

	res, err := r.db.ExecContext(ctx, query, userID, value.NormalizeCollection(collection))
	if err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to delete subscription")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	return rows > 0, nil
}

// ListForUser возвращает подписки пользователя, упорядоченные по коллекции.
func (r *SubscriptionRepository) ListForUser(ctx context.Context, userID int64) ([]entity.Subscription, error) {
	query := r.db.Rebind(`
		SELECT user_id, collection, threshold_pct
		FROM subscriptions
		WHERE user_id = ?
		ORDER BY collection ASC`)

	var schemas []subscriptionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, userID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list user subscriptions")
	}

	return toDomainList(schemas), nil
}

// ListDistinctCollections возвращает коллекции, у которых есть хотя бы один подписчик.
func (r *SubscriptionRepository) ListDistinctCollections(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT collection FROM subscriptions ORDER BY collection ASC`

	collections := []string{}
	if err := r.db.SelectContext(ctx, &collections, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list collections")
	}

	return collections, nil
}

// SubscribersOf возвращает подписчиков коллекции, упорядоченных по user_id.
func (r *SubscriptionRepository) SubscribersOf(ctx context.Context, collection string) ([]entity.Subscription, error) {
	query := r.db.Rebind(`
		SELECT user_id, collection, threshold_pct
		FROM subscriptions
		WHERE collection = ?
		ORDER BY user_id ASC`)

	var schemas []subscriptionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, value.NormalizeCollection(collection)); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list subscribers")
	}

	return toDomainList(schemas), nil
}

func toDomainList(schemas []subscriptionSchema) []entity.Subscription {
	return lox.Map(schemas, subscriptionSchema.toDomain)
}
