package domain

import "time"

// ReferralStatus is the reward lifecycle state of a referral. Transitions
// only move forward: PENDING -> COMPLETED -> REWARDED.
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "PENDING"
	ReferralStatusCompleted ReferralStatus = "COMPLETED"
	ReferralStatusRewarded  ReferralStatus = "REWARDED"
)

// Rank orders statuses along the lifecycle so callers can tell whether a
// requested transition is a forward step, a no-op, or impossible.
func (s ReferralStatus) Rank() int {
	switch s {
	case ReferralStatusPending:
		return 0
	case ReferralStatusCompleted:
		return 1
	case ReferralStatusRewarded:
		return 2
	default:
		return -1
	}
}

// Referral links a new account's signup to the referral code that brought
// them in. Rows are never deleted; they are the audit trail of attributions.
type Referral struct {
	ID string

	// ReferrerID is the code owner. ReferredID is the new account; an
	// account appears as referred in at most one referral, ever.
	ReferrerID string
	ReferredID string

	// CodeUsed is the code value at attribution time, kept verbatim even if
	// the owner later renames their code.
	CodeUsed string

	Status ReferralStatus

	CreatedAt   time.Time
	CompletedAt *time.Time
	RewardedAt  *time.Time
}

// ReferralStats are per-owner referral counts broken down by status.
type ReferralStats struct {
	Total     int64
	Pending   int64
	Completed int64
	Rewarded  int64
}
