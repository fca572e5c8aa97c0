package model

import (
	"time"
)

// Day is the unit a benefit is measured in.
const Day = 24 * time.Hour

// SubscriptionRecord is the per-subject benefit ledger entry.
// A nil or past BenefitExpiry means the subject has no active benefit.
type SubscriptionRecord struct {
	SubjectID     string
	BenefitExpiry *time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the benefit is still running at now.
func (s *SubscriptionRecord) IsActive(now time.Time) bool {
	return s != nil && s.BenefitExpiry != nil && s.BenefitExpiry.After(now)
}

// ExtendExpiry applies the renewal rule: max(current, now) + days.
// An existing future expiry is extended, never truncated or reset.
func ExtendExpiry(current *time.Time, now time.Time, days int) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.Add(time.Duration(days) * Day)
}
