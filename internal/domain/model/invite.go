package model

import (
	"time"

	"activation-service/internal/domain"

	"github.com/google/uuid"
)

// InviteRecord links an invitee to the subject that referred them.
// RewardClaimedAt is set once, on the invitee's first successful redemption.
type InviteRecord struct {
	ID                 string
	InviterID          string
	InviteeID          string
	CreatedAt          time.Time
	RewardClaimedAt    *time.Time
	InviteeBenefitTier *int
}

func NewInviteRecord(id, inviterID, inviteeID string) (*InviteRecord, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if inviterID == "" || inviteeID == "" || inviterID == inviteeID {
		return nil, domain.ErrInvalidArgument
	}
	return &InviteRecord{
		ID:        id,
		InviterID: inviterID,
		InviteeID: inviteeID,
		CreatedAt: time.Now(),
	}, nil
}

func (i *InviteRecord) IsClaimed() bool    { return i != nil && i.RewardClaimedAt != nil }
func (i *InviteRecord) IsSelfInvite() bool { return i != nil && i.InviterID == i.InviteeID }

// inviterRewardTable maps redeemed days to the days credited to the inviter.
var inviterRewardTable = map[int]int{
	1:    0,
	7:    1,
	30:   7,
	90:   30,
	365:  90,
	1095: 365,
}

// InviterRewardDays returns the reward for a redeemed tier. Only exact tiers
// earn anything; every other day count maps to 0.
func InviterRewardDays(redeemedDays int) int {
	return inviterRewardTable[redeemedDays]
}
