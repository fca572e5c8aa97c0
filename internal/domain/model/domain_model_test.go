//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"activation-service/internal/domain"
)

// --- Subscription Tests ---

func TestExtendExpiry(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("should start from now when there is no expiry", func(t *testing.T) {
		got := ExtendExpiry(nil, now, 30)
		if want := now.Add(30 * Day); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("should start from now when the expiry is in the past", func(t *testing.T) {
		past := now.Add(-5 * Day)
		got := ExtendExpiry(&past, now, 30)
		if want := now.Add(30 * Day); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("should extend a future expiry instead of resetting it", func(t *testing.T) {
		future := now.Add(30 * Day)
		got := ExtendExpiry(&future, now, 7)
		if want := future.Add(7 * Day); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestSubscriptionRecordIsActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	var nilRec *SubscriptionRecord
	if nilRec.IsActive(now) {
		t.Error("nil record must be inactive")
	}
	if (&SubscriptionRecord{}).IsActive(now) {
		t.Error("record without expiry must be inactive")
	}
	if (&SubscriptionRecord{BenefitExpiry: &past}).IsActive(now) {
		t.Error("expired record must be inactive")
	}
	if !(&SubscriptionRecord{BenefitExpiry: &future}).IsActive(now) {
		t.Error("future expiry must be active")
	}
}

// --- Invite Tests ---

func TestInviterRewardDays(t *testing.T) {
	table := map[int]int{1: 0, 7: 1, 30: 7, 90: 30, 365: 90, 1095: 365, 14: 0, 0: 0, 366: 0}
	for redeemed, want := range table {
		if got := InviterRewardDays(redeemed); got != want {
			t.Errorf("InviterRewardDays(%d) = %d, want %d", redeemed, got, want)
		}
	}
}

func TestNewInviteRecord(t *testing.T) {
	t.Run("should create an unclaimed invite", func(t *testing.T) {
		inv, err := NewInviteRecord("", "inviter", "invitee")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if inv.ID == "" {
			t.Error("expected an ID to be generated")
		}
		if inv.IsClaimed() {
			t.Error("new invite must not be claimed")
		}
	})

	t.Run("should reject self invites and empty ids", func(t *testing.T) {
		for _, pair := range [][2]string{{"a", "a"}, {"", "b"}, {"a", ""}} {
			_, err := NewInviteRecord("", pair[0], pair[1])
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for %v, got %v", pair, err)
			}
		}
	})
}
