// File: internal/usecase/invite_reward_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"activation-service/internal/domain"
	"activation-service/internal/domain/model"
	"activation-service/internal/domain/ports/repository"
	"activation-service/internal/infra/logging"
)

// Compile-time check
var _ InviteRewardUseCase = (*inviteRewardUC)(nil)

// RewardOutcome is what a single reward evaluation ended in.
type RewardOutcome string

const (
	RewardCredited   RewardOutcome = "credited"
	RewardZeroTier   RewardOutcome = "zero_tier"
	RewardSelfInvite RewardOutcome = "self_invite"
	RewardNoInvite   RewardOutcome = "no_invite"
	RewardFailed     RewardOutcome = "failed"
)

type InviteRewardUseCase interface {
	// OnRedeemed credits the inviter of inviteeID at most once, on the
	// invitee's first redemption after registering.
	OnRedeemed(ctx context.Context, inviteeID string, redeemedDays int) (RewardOutcome, error)
}

type inviteRewardUC struct {
	invites repository.InviteRepository
	subs    repository.SubscriptionRepository
	tm      repository.TransactionManager

	log *zerolog.Logger
}

func NewInviteRewardUseCase(invites repository.InviteRepository, subs repository.SubscriptionRepository, tm repository.TransactionManager, logger *zerolog.Logger) *inviteRewardUC {
	return &inviteRewardUC{invites: invites, subs: subs, tm: tm, log: logger}
}

func (u *inviteRewardUC) OnRedeemed(ctx context.Context, inviteeID string, redeemedDays int) (RewardOutcome, error) {
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "InviteRewardUC.OnRedeemed")()

	var (
		outcome   RewardOutcome
		inviterID string
		reward    int
	)
	now := time.Now()

	err := u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, tx repository.Tx) error {
		inv, err := u.invites.FindUnclaimedByInvitee(ctx, tx, inviteeID)
		if errors.Is(err, domain.ErrNotFound) {
			outcome = RewardNoInvite
			return nil
		}
		if err != nil {
			return err
		}
		if inv.IsSelfInvite() {
			outcome = RewardSelfInvite
			return nil
		}

		claimed, err := u.invites.MarkClaimed(ctx, tx, inv.ID, now, redeemedDays)
		if err != nil {
			return err
		}
		if !claimed {
			// another redemption claimed it first
			outcome = RewardNoInvite
			return nil
		}

		inviterID = inv.InviterID
		reward = model.InviterRewardDays(redeemedDays)
		if reward == 0 {
			outcome = RewardZeroTier
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("invitee_id", inviteeID).Msg("invite reward: claim transaction failed")
		return RewardFailed, fmt.Errorf("claim invite: %w", err)
	}
	if outcome != "" {
		log.Debug().Str("invitee_id", inviteeID).Str("outcome", string(outcome)).Int("redeemed_days", redeemedDays).Msg("invite reward: nothing to credit")
		return outcome, nil
	}

	// The claim is committed at this point. If crediting fails the reward is
	// lost, which is preferred over granting it twice.
	expiry, err := u.subs.ExtendExpiry(ctx, repository.NoTX, inviterID, time.Now(), reward)
	if err != nil {
		log.Error().Err(err).Str("inviter_id", inviterID).Str("invitee_id", inviteeID).Int("reward_days", reward).Msg("invite reward: crediting inviter failed")
		return RewardFailed, fmt.Errorf("credit inviter: %w", err)
	}

	log.Info().Str("inviter_id", inviterID).Str("invitee_id", inviteeID).Int("reward_days", reward).Time("benefit_expiry", expiry).Msg("invite reward credited")
	return RewardCredited, nil
}
