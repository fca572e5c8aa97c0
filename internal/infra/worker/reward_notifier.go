package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"activation-service/internal/infra/logging"
	"activation-service/internal/infra/metrics"
	"activation-service/internal/usecase"
)

const rewardTimeout = 30 * time.Second

var _ usecase.RewardNotifier = (*RewardNotifier)(nil)

// RewardNotifier hands committed redemptions to the invite reward engine,
// inline or on a Pool, and counts the outcomes.
type RewardNotifier struct {
	engine usecase.InviteRewardUseCase
	pool   *Pool // nil runs inline
	log    *zerolog.Logger
}

func NewRewardNotifier(engine usecase.InviteRewardUseCase, pool *Pool, logger *zerolog.Logger) *RewardNotifier {
	l := logger.With().Str("component", "RewardNotifier").Logger()
	return &RewardNotifier{engine: engine, pool: pool, log: &l}
}

func (n *RewardNotifier) Notify(ctx context.Context, inviteeID string, redeemedDays int) {
	if n.pool == nil {
		n.evaluate(ctx, inviteeID, redeemedDays)
		return
	}

	// keep trace values but not the request's cancellation
	detached := context.WithoutCancel(ctx)
	run := func() {
		tctx, cancel := context.WithTimeout(detached, rewardTimeout)
		defer cancel()
		n.evaluate(tctx, inviteeID, redeemedDays)
	}
	err := n.pool.Submit(func(context.Context) error {
		run()
		return nil
	})
	if err != nil {
		// The invite must be claimed at this redemption's tier, so a full or
		// stopped queue degrades to the caller's goroutine.
		logging.With(ctx, n.log).Warn().Err(err).Str("invitee_id", inviteeID).Int("redeemed_days", redeemedDays).Msg("reward queue unavailable, evaluating inline")
		run()
	}
}

func (n *RewardNotifier) evaluate(ctx context.Context, inviteeID string, redeemedDays int) {
	outcome, err := n.engine.OnRedeemed(ctx, inviteeID, redeemedDays)
	metrics.IncInviteReward(string(outcome))
	if err != nil {
		logging.With(ctx, n.log).Error().Err(err).Str("invitee_id", inviteeID).Msg("invite reward failed")
	}
}
