package referralsdk

import "time"

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "code_taken")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// CodeResponse describes the caller's referral code.
type CodeResponse struct {
	Code      string     `json:"code"`
	IsActive  bool       `json:"is_active"`
	UseCount  int64      `json:"use_count"`
	MaxUses   *int64     `json:"max_uses,omitempty"`
	Remaining *int64     `json:"remaining,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UpdateCodeRequest asks to replace the caller's code with a custom value.
type UpdateCodeRequest struct {
	Code string `json:"code" validate:"required,min=3,max=20"`
}

// AvailabilityResponse reports whether a code value could be claimed.
// The answer is advisory; another caller can claim the value between the
// check and the update.
type AvailabilityResponse struct {
	Code      string `json:"code"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ValidationResponse is the public validity check result.
type ValidationResponse struct {
	Code   string `json:"code"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ReferralResponse describes a single referral from the referrer's side.
type ReferralResponse struct {
	ID          string     `json:"id"`
	ReferredID  string     `json:"referred_id"`
	Code        string     `json:"code"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RewardedAt  *time.Time `json:"rewarded_at,omitempty"`
}

// ReferralsResponse wraps a referral listing.
type ReferralsResponse struct {
	Referrals []ReferralResponse `json:"referrals"`
}

// StatsResponse aggregates the caller's referral counts by status.
type StatsResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Rewarded  int64 `json:"rewarded"`
}

// AttributionRequest links a newly signed-up account to a referral code.
// Sent by the signup service over the internal API.
type AttributionRequest struct {
	ReferredID string `json:"referred_id" validate:"required"`
	Code       string `json:"code" validate:"required"`
}

// AttributionResponse is the recorded referral.
type AttributionResponse struct {
	ID         string    `json:"id"`
	ReferrerID string    `json:"referrer_id"`
	ReferredID string    `json:"referred_id"`
	Code       string    `json:"code"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// HealthChecks reports per-dependency health on the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
