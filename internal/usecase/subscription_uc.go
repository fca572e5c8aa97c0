// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"activation-service/internal/domain"
	"activation-service/internal/domain/ports/repository"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	Status(ctx context.Context, subjectID string) (*SubscriptionStatus, error)
	CountActive(ctx context.Context) (int, error)
}

// SubscriptionStatus is the read model served to clients. BenefitExpiry is
// nil for subjects that never redeemed anything.
type SubscriptionStatus struct {
	SubjectID     string
	BenefitExpiry *time.Time
	Active        bool
}

type subscriptionUC struct {
	subs repository.SubscriptionRepository
	log  *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{subs: subs, log: logger}
}

func (u *subscriptionUC) Status(ctx context.Context, subjectID string) (*SubscriptionStatus, error) {
	if subjectID == "" {
		return nil, domain.ErrUnauthorized
	}
	rec, err := u.subs.FindBySubject(ctx, repository.NoTX, subjectID)
	if errors.Is(err, domain.ErrNotFound) {
		return &SubscriptionStatus{SubjectID: subjectID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SubscriptionStatus{
		SubjectID:     subjectID,
		BenefitExpiry: rec.BenefitExpiry,
		Active:        rec.IsActive(time.Now()),
	}, nil
}

func (u *subscriptionUC) CountActive(ctx context.Context) (int, error) {
	return u.subs.CountActive(ctx, repository.NoTX, time.Now())
}
