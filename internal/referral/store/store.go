package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrOwnerHasCode distinguishes an insert losing the one-code-per-owner
	// race from an insert losing the code-value uniqueness race; the former
	// means "re-read the winner", the latter "pick another value".
	ErrOwnerHasCode = errors.New("store: owner already has a code")

	// Consume classification. TryConsumeCode applies a single guarded update;
	// when the guard fails, the row is re-read inside the same transaction to
	// tell the caller which precondition broke.
	ErrCodeInactive     = errors.New("store: code inactive")
	ErrCodeExpired      = errors.New("store: code expired")
	ErrCapacityExceeded = errors.New("store: code capacity exceeded")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and to actively stop people from accidentally starting
// transactions within transactions.
type Store interface {
	Codes() Codes
	Referrals() Referrals
	Counters() Counters

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., consuming
	// a code and inserting the referral it paid for).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Codes interface {
	// CreateCode inserts a new code row. Returns ErrOwnerHasCode when the
	// owner already has a code and ErrAlreadyExists when the code value is
	// taken by someone else.
	CreateCode(ctx context.Context, c domain.ReferralCode) error

	// GetCodeByOwner returns the owner's code row.
	GetCodeByOwner(ctx context.Context, ownerID string) (domain.ReferralCode, error)

	// GetCodeByValue looks a code up by value, case-insensitively.
	GetCodeByValue(ctx context.Context, code string) (domain.ReferralCode, error)

	// CodeValueExists reports whether any code row (active or not) holds the
	// value, case-insensitively. excludingOwner, when non-empty, ignores that
	// owner's own row so a rename to the same value is not a conflict.
	// This is a UX hint only; uniqueness is enforced by the unique index at
	// commit time.
	CodeValueExists(ctx context.Context, code string, excludingOwner string) (bool, error)

	// RenameCode atomically sets a new code value for the owner, subject to
	// the global case-insensitive unique index. Returns ErrAlreadyExists on
	// a value collision and ErrNotFound when the owner has no code.
	RenameCode(ctx context.Context, ownerID, newCode string) error

	// SetCodeActive flips the active flag on the owner's code.
	SetCodeActive(ctx context.Context, ownerID string, active bool) error

	// TryConsumeCode increments use_count if and only if the code is active,
	// unexpired at now, and under capacity, returning the post-increment row.
	// On failure it returns the unchanged row plus one of ErrNotFound,
	// ErrCodeInactive, ErrCodeExpired or ErrCapacityExceeded.
	TryConsumeCode(ctx context.Context, code string, now time.Time) (domain.ReferralCode, error)
}

type Referrals interface {
	// CreateReferral inserts a referral in PENDING. The unique index on
	// referred_id makes it fail with ErrAlreadyExists when the account has
	// already been attributed, even under concurrent inserts.
	CreateReferral(ctx context.Context, r domain.Referral) error

	// GetReferralByID returns a referral row.
	GetReferralByID(ctx context.Context, id string) (domain.Referral, error)

	// GetReferralByReferred returns the (single) referral attributing an account.
	GetReferralByReferred(ctx context.Context, referredID string) (domain.Referral, error)

	// ListReferralsByReferrer returns the owner's referrals, newest first.
	ListReferralsByReferrer(ctx context.Context, referrerID string) ([]domain.Referral, error)

	// CountReferralsByStatus aggregates the owner's referrals by status.
	CountReferralsByStatus(ctx context.Context, referrerID string) (domain.ReferralStats, error)

	// MarkReferralCompleted conditionally moves PENDING -> COMPLETED and sets
	// completed_at. Reports whether this call applied the transition; false
	// with a nil error means the row was not in PENDING.
	MarkReferralCompleted(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkReferralRewarded conditionally moves COMPLETED -> REWARDED and sets
	// rewarded_at, same contract as MarkReferralCompleted.
	MarkReferralRewarded(ctx context.Context, id string, at time.Time) (bool, error)
}

type Counters interface {
	// IncrementWindow atomically bumps the (subject, action, windowStart)
	// counter and returns the post-increment value. Increment-and-check in
	// one statement so concurrent callers can never both observe "under
	// limit" for the last slot.
	IncrementWindow(ctx context.Context, subject, action string, windowStart time.Time) (int64, error)

	// PurgeWindowsBefore removes counter rows whose window started before the
	// cutoff. Housekeeping only; returns the number of rows removed.
	PurgeWindowsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
