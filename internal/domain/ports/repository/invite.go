package repository

import (
	"context"
	"time"

	"activation-service/internal/domain/model"
)

// InviteRepository is the port for referral records.
type InviteRepository interface {
	// Create returns domain.ErrAlreadyExists when the invitee is already registered.
	Create(ctx context.Context, tx Tx, inv *model.InviteRecord) error
	// FindUnclaimedByInvitee locks and returns the unclaimed invite for the
	// invitee, or domain.ErrNotFound.
	FindUnclaimedByInvitee(ctx context.Context, tx Tx, inviteeID string) (*model.InviteRecord, error)
	// MarkClaimed sets reward_claimed_at only if it is still null. It reports
	// whether this call performed the claim.
	MarkClaimed(ctx context.Context, tx Tx, id string, claimedAt time.Time, tier int) (bool, error)
}
