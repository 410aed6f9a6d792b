package domain

import "time"

// ReferralCode is the code an account shares to attract signups. An account
// owns at most one code at a time; the code value is stored in canonical
// uppercase form and is unique case-insensitively across all codes, active
// or not.
type ReferralCode struct {
	ID      string
	OwnerID string

	// Code is the canonical (uppercase) code value.
	Code string

	IsActive bool

	// MaxUses caps successful attributions. Nil means unlimited.
	MaxUses *int64

	// UseCount never exceeds MaxUses when bounded, including under
	// concurrent consumption.
	UseCount int64

	// ExpiresAt is an optional hard expiry. Nil means the code never expires.
	ExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the code's expiry has passed at the given time.
func (c ReferralCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Exhausted reports whether a bounded code has no remaining capacity.
func (c ReferralCode) Exhausted() bool {
	return c.MaxUses != nil && c.UseCount >= *c.MaxUses
}

// Remaining returns the number of attributions the code can still produce,
// or nil for unlimited codes.
func (c ReferralCode) Remaining() *int64 {
	if c.MaxUses == nil {
		return nil
	}
	left := *c.MaxUses - c.UseCount
	if left < 0 {
		left = 0
	}
	return &left
}
