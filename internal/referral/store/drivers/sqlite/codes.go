package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/domain"
	"github.com/aussiebroadwan/referral/internal/referral/store"
)

type codesRepo struct {
	q querier
}

const codeColumns = `id, owner_id, code, is_active, max_uses, use_count, expires_at, created_at, updated_at`

func (r *codesRepo) CreateCode(ctx context.Context, c domain.ReferralCode) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO referral_codes (`+codeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.OwnerID,
		c.Code,
		c.IsActive,
		mapOptionalInt64(c.MaxUses),
		c.UseCount,
		mapOptionalTime(c.ExpiresAt),
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	)
	switch {
	case isUniqueViolation(err, "referral_codes.owner_id"):
		return store.ErrOwnerHasCode
	case isUniqueViolation(err, "referral_codes.code"):
		return store.ErrAlreadyExists
	}
	return err
}

func (r *codesRepo) GetCodeByOwner(ctx context.Context, ownerID string) (domain.ReferralCode, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+codeColumns+` FROM referral_codes WHERE owner_id = ?`, ownerID)

	c, err := scanCode(row)
	if err != nil {
		return domain.ReferralCode{}, mapNotFound(err)
	}
	return c, nil
}

func (r *codesRepo) GetCodeByValue(ctx context.Context, code string) (domain.ReferralCode, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+codeColumns+` FROM referral_codes WHERE code = ? COLLATE NOCASE`, code)

	c, err := scanCode(row)
	if err != nil {
		return domain.ReferralCode{}, mapNotFound(err)
	}
	return c, nil
}

func (r *codesRepo) CodeValueExists(
	ctx context.Context,
	code string,
	excludingOwner string,
) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM referral_codes
			WHERE code = ? COLLATE NOCASE AND (? = '' OR owner_id <> ?)
		)`, code, excludingOwner, excludingOwner).Scan(&exists)
	return exists, err
}

func (r *codesRepo) RenameCode(ctx context.Context, ownerID, newCode string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE referral_codes SET code = ?, updated_at = ? WHERE owner_id = ?`,
		newCode, time.Now().UTC(), ownerID)
	if isUniqueViolation(err, "referral_codes.code") {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *codesRepo) SetCodeActive(ctx context.Context, ownerID string, active bool) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE referral_codes SET is_active = ?, updated_at = ? WHERE owner_id = ?`,
		active, time.Now().UTC(), ownerID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// TryConsumeCode is the correctness-critical operation: a single guarded
// UPDATE so that under N concurrent callers against a code with max_uses = k,
// exactly min(N, k) increments apply. Classification of a failed guard is a
// follow-up read; run this inside a transaction when the classification must
// be exact.
func (r *codesRepo) TryConsumeCode(
	ctx context.Context,
	code string,
	now time.Time,
) (domain.ReferralCode, error) {
	now = now.UTC()

	row := r.q.QueryRowContext(ctx, `
		UPDATE referral_codes
		SET use_count = use_count + 1, updated_at = ?
		WHERE code = ? COLLATE NOCASE
		  AND is_active = 1
		  AND (expires_at IS NULL OR expires_at > ?)
		  AND (max_uses IS NULL OR use_count < max_uses)
		RETURNING `+codeColumns,
		now, code, now)

	c, err := scanCode(row)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.ReferralCode{}, err
	}

	// Guard failed. Re-read to report which precondition broke; the guard
	// conditions are exhaustive, so one of these must hold.
	c, err = r.GetCodeByValue(ctx, code)
	if err != nil {
		return domain.ReferralCode{}, err
	}
	switch {
	case !c.IsActive:
		return c, store.ErrCodeInactive
	case c.Expired(now):
		return c, store.ErrCodeExpired
	default:
		return c, store.ErrCapacityExceeded
	}
}
