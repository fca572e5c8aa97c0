package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"activation-service/internal/domain"
	"activation-service/internal/domain/model"
	"activation-service/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) FindBySubject(ctx context.Context, tx repository.Tx, subjectID string) (*model.SubscriptionRecord, error) {
	const q = `
SELECT subject_id, benefit_expiry, updated_at
  FROM subscriptions
 WHERE subject_id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, subjectID)
	if err != nil {
		return nil, err
	}
	var rec model.SubscriptionRecord
	if err := row.Scan(&rec.SubjectID, &rec.BenefitExpiry, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	return &rec, nil
}

// ExtendExpiry is a single upsert so concurrent extensions of one subject
// serialize on the row lock instead of racing a read-modify-write.
func (r *subscriptionRepo) ExtendExpiry(ctx context.Context, tx repository.Tx, subjectID string, now time.Time, days int) (time.Time, error) {
	const q = `
INSERT INTO subscriptions (subject_id, benefit_expiry, updated_at)
VALUES ($1, $2::timestamptz + make_interval(days => $3::int), $2)
ON CONFLICT (subject_id) DO UPDATE SET
  benefit_expiry = GREATEST(COALESCE(subscriptions.benefit_expiry, $2::timestamptz), $2::timestamptz) + make_interval(days => $3::int),
  updated_at     = $2
RETURNING benefit_expiry;`

	row, err := pickRow(ctx, r.pool, tx, q, subjectID, now, days)
	if err != nil {
		return time.Time{}, err
	}
	var expiry time.Time
	if err := row.Scan(&expiry); err != nil {
		return time.Time{}, fmt.Errorf("%w: extend expiry: %v", domain.ErrOperationFailed, err)
	}
	return expiry, nil
}

func (r *subscriptionRepo) CountActive(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM subscriptions WHERE benefit_expiry > $1;`

	row, err := pickRow(ctx, r.pool, tx, q, now)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	return n, nil
}
