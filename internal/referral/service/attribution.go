package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/domain"
	"github.com/aussiebroadwan/referral/internal/referral/store"
	"github.com/aussiebroadwan/referral/pkg/idx"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

var (
	ErrSelfReferral     = errors.New("cannot use your own referral code")
	ErrAlreadyReferred  = errors.New("account is already attributed to a referral")
	ErrReferralNotFound = errors.New("referral not found")
	ErrNotYetCompleted  = errors.New("referral has not been completed")
)

// AttributionService records who referred whom and walks referrals through
// their lifecycle: PENDING on signup, COMPLETED when the referred account
// qualifies, REWARDED when the reward is paid out.
//
// The qualification criterion itself lives with the callers (signup and
// billing services signal transitions over the internal API); the hooks fire
// after a transition actually applies, so downstream effects like reward
// issuance happen at most once per referral.
type AttributionService struct {
	Store     store.Store
	Validator *CodeValidator

	OnCompleted func(domain.Referral)
	OnRewarded  func(domain.Referral)
}

// AttributeSignup links a newly signed-up account to the referrer behind the
// code, consuming one use of it. Everything happens in one transaction, so a
// code consume without its referral row (or vice versa) cannot be observed.
func (s *AttributionService) AttributeSignup(ctx context.Context, referredID, rawCode string) (domain.Referral, error) {
	log := slogx.FromContext(ctx)
	code := s.Validator.Normalize(rawCode)

	var referral domain.Referral
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Resolve the code.
		rec, err := tx.Codes().GetCodeByValue(ctx, code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCodeNotFound
			}
			return err
		}

		// 2. Nobody refers themselves.
		if rec.OwnerID == referredID {
			return ErrSelfReferral
		}

		// 3. One referral per referred account, ever.
		_, err = tx.Referrals().GetReferralByReferred(ctx, referredID)
		if err == nil {
			return ErrAlreadyReferred
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 4. Consume one use, atomically guarded on active/expiry/capacity.
		now := time.Now().UTC()
		if _, err := tx.Codes().TryConsumeCode(ctx, code, now); err != nil {
			return err
		}

		// 5. Record the referral. The unique index on referred_id backstops
		// step 3 against concurrent signups for the same account.
		referral = domain.Referral{
			ID:         idx.New().String(),
			ReferrerID: rec.OwnerID,
			ReferredID: referredID,
			CodeUsed:   rec.Code,
			Status:     domain.ReferralStatusPending,
			CreatedAt:  now,
		}
		if err := tx.Referrals().CreateReferral(ctx, referral); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyReferred
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Referral{}, err
	}

	log.Info("signup attributed",
		slog.String("referral_id", referral.ID),
		slog.String("referrer_id", referral.ReferrerID),
		slog.String("referred_id", referral.ReferredID),
		slog.String("code", referral.CodeUsed),
	)
	return referral, nil
}

// SignalCompleted moves a referral PENDING -> COMPLETED. Repeat signals are
// no-ops; the OnCompleted hook fires only on the call that applied the
// transition.
func (s *AttributionService) SignalCompleted(ctx context.Context, referralID string) (domain.Referral, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	applied, err := s.Store.Referrals().MarkReferralCompleted(ctx, referralID, now)
	if err != nil {
		log.Error("failed to mark referral completed", slog.Any("error", err))
		return domain.Referral{}, err
	}

	referral, err := s.Store.Referrals().GetReferralByID(ctx, referralID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Referral{}, ErrReferralNotFound
		}
		return domain.Referral{}, err
	}

	if applied {
		log.Info("referral completed", slog.String("referral_id", referralID))
		if s.OnCompleted != nil {
			s.OnCompleted(referral)
		}
	}
	// Not applied but present: already COMPLETED or REWARDED, idempotent.
	return referral, nil
}

// SignalRewarded moves a referral COMPLETED -> REWARDED. Rewarding a referral
// that never completed is an error; repeat signals are no-ops.
func (s *AttributionService) SignalRewarded(ctx context.Context, referralID string) (domain.Referral, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	applied, err := s.Store.Referrals().MarkReferralRewarded(ctx, referralID, now)
	if err != nil {
		log.Error("failed to mark referral rewarded", slog.Any("error", err))
		return domain.Referral{}, err
	}

	referral, err := s.Store.Referrals().GetReferralByID(ctx, referralID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Referral{}, ErrReferralNotFound
		}
		return domain.Referral{}, err
	}

	if applied {
		log.Info("referral rewarded", slog.String("referral_id", referralID))
		if s.OnRewarded != nil {
			s.OnRewarded(referral)
		}
		return referral, nil
	}

	// Not applied: fine if already REWARDED, an ordering error if still PENDING.
	if referral.Status == domain.ReferralStatusPending {
		return domain.Referral{}, ErrNotYetCompleted
	}
	return referral, nil
}

// ListReferrals returns the owner's referrals, newest first.
func (s *AttributionService) ListReferrals(ctx context.Context, referrerID string) ([]domain.Referral, error) {
	return s.Store.Referrals().ListReferralsByReferrer(ctx, referrerID)
}

// Stats aggregates the owner's referral counts by status.
func (s *AttributionService) Stats(ctx context.Context, referrerID string) (domain.ReferralStats, error) {
	return s.Store.Referrals().CountReferralsByStatus(ctx, referrerID)
}
