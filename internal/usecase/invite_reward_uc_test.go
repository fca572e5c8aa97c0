//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"activation-service/internal/domain"
	"activation-service/internal/domain/model"
	"activation-service/internal/domain/ports/repository"
	"activation-service/internal/usecase"
)

func TestInviteRewardUseCase_OnRedeemed(t *testing.T) {
	ctx := context.Background()

	setup := func() (*memStore, *MockInviteRepo, *MockSubscriptionRepo, usecase.InviteRewardUseCase) {
		store := newMemStore()
		invites := NewMockInviteRepo(store)
		subs := NewMockSubscriptionRepo(store)
		uc := usecase.NewInviteRewardUseCase(invites, subs, NewMockTxManager(store), newTestLogger())
		return store, invites, subs, uc
	}

	tiers := []struct {
		days   int
		reward int
		want   usecase.RewardOutcome
	}{
		{1, 0, usecase.RewardZeroTier},
		{7, 1, usecase.RewardCredited},
		{14, 0, usecase.RewardZeroTier},
		{30, 7, usecase.RewardCredited},
		{90, 30, usecase.RewardCredited},
		{365, 90, usecase.RewardCredited},
		{1095, 365, usecase.RewardCredited},
	}
	for _, tc := range tiers {
		tc := tc
		t.Run(fmt.Sprintf("%d days", tc.days), func(t *testing.T) {
			store, invites, _, uc := setup()
			invites.seedInvite("inv", "inviter", "invitee")

			before := time.Now()
			outcome, err := uc.OnRedeemed(ctx, "invitee", tc.days)
			after := time.Now()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome != tc.want {
				t.Errorf("expected outcome %q, got %q", tc.want, outcome)
			}

			inv := invites.get("inv")
			if inv.RewardClaimedAt == nil {
				t.Fatal("invite must be claimed regardless of reward size")
			}
			if inv.InviteeBenefitTier == nil || *inv.InviteeBenefitTier != tc.days {
				t.Errorf("expected stored tier %d, got %v", tc.days, inv.InviteeBenefitTier)
			}

			exp := store.expiry("inviter")
			if tc.reward == 0 {
				if exp != nil {
					t.Errorf("inviter must not be credited, got %v", exp)
				}
				return
			}
			if exp == nil || exp.Before(before.Add(time.Duration(tc.reward)*model.Day)) || exp.After(after.Add(time.Duration(tc.reward)*model.Day)) {
				t.Errorf("expected inviter credited %d days, got %v", tc.reward, exp)
			}
		})
	}

	t.Run("should be a no-op without an invite", func(t *testing.T) {
		store, _, subs, uc := setup()
		outcome, err := uc.OnRedeemed(ctx, "nobody", 30)
		if err != nil || outcome != usecase.RewardNoInvite {
			t.Fatalf("expected no_invite, got %q %v", outcome, err)
		}
		if len(subs.Extends) != 0 || store.expiry("nobody") != nil {
			t.Error("nothing may be credited")
		}
	})

	t.Run("should ignore self invites", func(t *testing.T) {
		store, invites, _, uc := setup()
		invites.seedInvite("inv", "same", "same")

		outcome, err := uc.OnRedeemed(ctx, "same", 365)
		if err != nil || outcome != usecase.RewardSelfInvite {
			t.Fatalf("expected self_invite, got %q %v", outcome, err)
		}
		if invites.get("inv").RewardClaimedAt != nil {
			t.Error("self invite must stay unclaimed")
		}
		if store.expiry("same") != nil {
			t.Error("self invite must not credit anything")
		}
	})

	t.Run("should credit exactly once across repeated redemptions", func(t *testing.T) {
		store, invites, _, uc := setup()
		invites.seedInvite("inv", "inviter", "invitee")

		if outcome, _ := uc.OnRedeemed(ctx, "invitee", 30); outcome != usecase.RewardCredited {
			t.Fatalf("expected first call credited, got %q", outcome)
		}
		first := *store.expiry("inviter")

		if outcome, _ := uc.OnRedeemed(ctx, "invitee", 1095); outcome != usecase.RewardNoInvite {
			t.Fatalf("expected second call no_invite, got %q", outcome)
		}
		if got := *store.expiry("inviter"); !got.Equal(first) {
			t.Errorf("inviter credited twice: %v -> %v", first, got)
		}
	})

	t.Run("should credit exactly once under concurrent redemptions", func(t *testing.T) {
		_, invites, subs, uc := setup()
		invites.seedInvite("inv", "inviter", "invitee")

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			credited int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				outcome, err := uc.OnRedeemed(ctx, "invitee", 90)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if outcome == usecase.RewardCredited {
					mu.Lock()
					credited++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if credited != 1 {
			t.Errorf("expected exactly one credit, got %d", credited)
		}
		if len(subs.Extends) != 1 {
			t.Errorf("expected one inviter extension, got %d", len(subs.Extends))
		}
	})

	t.Run("should treat a lost claim race as no-op", func(t *testing.T) {
		store, invites, _, uc := setup()
		invites.seedInvite("inv", "inviter", "invitee")
		invites.MarkClaimedFunc = func(ctx context.Context, tx repository.Tx, id string, claimedAt time.Time, tier int) (bool, error) {
			return false, nil
		}

		outcome, err := uc.OnRedeemed(ctx, "invitee", 365)
		if err != nil || outcome != usecase.RewardNoInvite {
			t.Fatalf("expected no_invite, got %q %v", outcome, err)
		}
		if store.expiry("inviter") != nil {
			t.Error("loser of the claim race must not credit")
		}
	})

	t.Run("should report a failed claim transaction", func(t *testing.T) {
		_, invites, _, uc := setup()
		invites.FindUnclaimedByInviteeFunc = func(ctx context.Context, tx repository.Tx, inviteeID string) (*model.InviteRecord, error) {
			return nil, errors.New("deadlock detected")
		}

		outcome, err := uc.OnRedeemed(ctx, "invitee", 30)
		if err == nil || outcome != usecase.RewardFailed {
			t.Fatalf("expected failed outcome with error, got %q %v", outcome, err)
		}
	})

	t.Run("should keep the claim when crediting fails", func(t *testing.T) {
		_, invites, subs, uc := setup()
		invites.seedInvite("inv", "inviter", "invitee")
		subs.ExtendExpiryFunc = func(ctx context.Context, tx repository.Tx, subjectID string, now time.Time, days int) (time.Time, error) {
			return time.Time{}, domain.ErrOperationFailed
		}

		outcome, err := uc.OnRedeemed(ctx, "invitee", 30)
		if !errors.Is(err, domain.ErrOperationFailed) || outcome != usecase.RewardFailed {
			t.Fatalf("expected failed outcome, got %q %v", outcome, err)
		}
		if invites.get("inv").RewardClaimedAt == nil {
			t.Error("claim must stay committed so the reward is never granted twice")
		}
		if again, _ := uc.OnRedeemed(ctx, "invitee", 30); again != usecase.RewardNoInvite {
			t.Errorf("retry must not re-grant, got %q", again)
		}
	})
}
