package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"activation-service/internal/domain"
	"activation-service/internal/domain/model"
	"activation-service/internal/domain/ports/repository"
)

var _ repository.InviteRepository = (*inviteRepo)(nil)

type inviteRepo struct {
	pool *pgxpool.Pool
}

func NewInviteRepo(pool *pgxpool.Pool) *inviteRepo {
	return &inviteRepo{pool: pool}
}

func (r *inviteRepo) Create(ctx context.Context, tx repository.Tx, inv *model.InviteRecord) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}

	const q = `
INSERT INTO invites (id, inviter_id, invitee_id, created_at)
VALUES ($1, $2, $3, $4);`

	if _, err := execSQL(ctx, r.pool, tx, q, inv.ID, inv.InviterID, inv.InviteeID, inv.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("%w: create invite: %v", domain.ErrOperationFailed, err)
	}
	return nil
}

// FindUnclaimedByInvitee takes a row lock when called inside a transaction so
// concurrent reward evaluations for one invitee queue behind each other.
func (r *inviteRepo) FindUnclaimedByInvitee(ctx context.Context, tx repository.Tx, inviteeID string) (*model.InviteRecord, error) {
	const q = `
SELECT id, inviter_id, invitee_id, created_at, reward_claimed_at, invitee_benefit_tier
  FROM invites
 WHERE invitee_id = $1 AND reward_claimed_at IS NULL
 FOR UPDATE;`

	row, err := pickRow(ctx, r.pool, tx, q, inviteeID)
	if err != nil {
		return nil, err
	}
	var inv model.InviteRecord
	if err := row.Scan(&inv.ID, &inv.InviterID, &inv.InviteeID, &inv.CreatedAt, &inv.RewardClaimedAt, &inv.InviteeBenefitTier); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	return &inv, nil
}

func (r *inviteRepo) MarkClaimed(ctx context.Context, tx repository.Tx, id string, claimedAt time.Time, tier int) (bool, error) {
	const q = `
UPDATE invites
   SET reward_claimed_at = $2, invitee_benefit_tier = $3
 WHERE id = $1 AND reward_claimed_at IS NULL;`

	tag, err := execSQL(ctx, r.pool, tx, q, id, claimedAt, tier)
	if err != nil {
		return false, fmt.Errorf("%w: mark invite claimed: %v", domain.ErrOperationFailed, err)
	}
	return tag.RowsAffected() == 1, nil
}
