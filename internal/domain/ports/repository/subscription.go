package repository

import (
	"context"
	"time"

	"activation-service/internal/domain/model"
)

// SubscriptionRepository is the port for the per-subject benefit ledger.
type SubscriptionRepository interface {
	// FindBySubject returns domain.ErrNotFound when the subject has no record.
	FindBySubject(ctx context.Context, tx Tx, subjectID string) (*model.SubscriptionRecord, error)

	// ExtendExpiry atomically sets benefit_expiry to max(current, now) + days,
	// creating the record if needed, and returns the new expiry.
	ExtendExpiry(ctx context.Context, tx Tx, subjectID string, now time.Time, days int) (time.Time, error)

	// CountActive returns the number of subjects whose benefit runs past now.
	CountActive(ctx context.Context, tx Tx, now time.Time) (int, error)
}
