package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/domain"
	"github.com/aussiebroadwan/referral/internal/referral/store"
)

type referralsRepo struct {
	q querier
}

const referralColumns = `id, referrer_id, referred_id, code_used, status, created_at, completed_at, rewarded_at`

func (r *referralsRepo) CreateReferral(ctx context.Context, ref domain.Referral) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO referrals (`+referralColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ref.ID,
		ref.ReferrerID,
		ref.ReferredID,
		ref.CodeUsed,
		string(ref.Status),
		ref.CreatedAt.UTC(),
		mapOptionalTime(ref.CompletedAt),
		mapOptionalTime(ref.RewardedAt),
	)
	if isUniqueViolation(err, "referrals.referred_id") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *referralsRepo) GetReferralByID(ctx context.Context, id string) (domain.Referral, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+referralColumns+` FROM referrals WHERE id = ?`, id)

	ref, err := scanReferral(row)
	if err != nil {
		return domain.Referral{}, mapNotFound(err)
	}
	return ref, nil
}

func (r *referralsRepo) GetReferralByReferred(
	ctx context.Context,
	referredID string,
) (domain.Referral, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+referralColumns+` FROM referrals WHERE referred_id = ?`, referredID)

	ref, err := scanReferral(row)
	if err != nil {
		return domain.Referral{}, mapNotFound(err)
	}
	return ref, nil
}

func (r *referralsRepo) ListReferralsByReferrer(
	ctx context.Context,
	referrerID string,
) ([]domain.Referral, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+referralColumns+` FROM referrals
		WHERE referrer_id = ?
		ORDER BY created_at DESC, id DESC`, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *referralsRepo) CountReferralsByStatus(
	ctx context.Context,
	referrerID string,
) (domain.ReferralStats, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM referrals
		WHERE referrer_id = ?
		GROUP BY status`, referrerID)
	if err != nil {
		return domain.ReferralStats{}, err
	}
	defer rows.Close()

	var stats domain.ReferralStats
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return domain.ReferralStats{}, err
		}

		stats.Total += count
		switch domain.ReferralStatus(status) {
		case domain.ReferralStatusPending:
			stats.Pending = count
		case domain.ReferralStatusCompleted:
			stats.Completed = count
		case domain.ReferralStatusRewarded:
			stats.Rewarded = count
		}
	}
	return stats, rows.Err()
}

// MarkReferralCompleted applies "status = COMPLETED WHERE status = PENDING" so
// concurrent duplicate completion events collapse to a single transition.
func (r *referralsRepo) MarkReferralCompleted(
	ctx context.Context,
	id string,
	at time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE referrals
		SET status = ?, completed_at = ?
		WHERE id = ? AND status = ?`,
		string(domain.ReferralStatusCompleted), at.UTC(),
		id, string(domain.ReferralStatusPending))
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkReferralRewarded applies "status = REWARDED WHERE status = COMPLETED",
// same single-effective-transition contract as MarkReferralCompleted.
func (r *referralsRepo) MarkReferralRewarded(
	ctx context.Context,
	id string,
	at time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE referrals
		SET status = ?, rewarded_at = ?
		WHERE id = ? AND status = ?`,
		string(domain.ReferralStatusRewarded), at.UTC(),
		id, string(domain.ReferralStatusCompleted))
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
