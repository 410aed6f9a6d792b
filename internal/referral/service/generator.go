package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/domain"
	"github.com/aussiebroadwan/referral/internal/referral/store"
	"github.com/aussiebroadwan/referral/pkg/idx"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

// ErrCodeGenerationExhausted means every candidate collided. With a 36^20
// namespace this only happens when something else is badly wrong.
var ErrCodeGenerationExhausted = errors.New("unable to generate a unique referral code")

const (
	// Username-derived attempts: one plain, the rest suffixed.
	generateMaxAttempts = 5
	// Random full-length fallback attempts after that.
	generateFallbackAttempts = 3

	suffixLength  = 4
	codeAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixDivider = "-"
)

// CodeGenerator creates referral codes derived from usernames, falling back
// to random codes when the namespace around a username is contested.
type CodeGenerator struct {
	Store     store.Store
	Validator *CodeValidator
}

// GetOrCreate returns the owner's referral code, creating one when none
// exists. Creation is race-safe: concurrent calls for the same owner all
// return the same winning code, because the insert is guarded by the
// one-code-per-owner unique index and losers re-read the winner's row.
func (g *CodeGenerator) GetOrCreate(ctx context.Context, ownerID, username string) (domain.ReferralCode, error) {
	log := slogx.FromContext(ctx)

	// 1. Fast path: the owner already has a code.
	existing, err := g.Store.Codes().GetCodeByOwner(ctx, ownerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up owner code", slog.Any("error", err))
		return domain.ReferralCode{}, err
	}

	// 2. Username-derived candidates, then random fallbacks. Each insert is
	// a single atomic claim on the code value; a value collision just moves
	// on to the next candidate.
	base := g.usableBase(username)

	for attempt := 0; attempt < generateMaxAttempts+generateFallbackAttempts; attempt++ {
		candidate, err := g.candidate(base, attempt)
		if err != nil {
			return domain.ReferralCode{}, err
		}
		if candidate == "" {
			continue
		}

		now := time.Now().UTC()
		code := domain.ReferralCode{
			ID:        idx.New().String(),
			OwnerID:   ownerID,
			Code:      candidate,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = g.Store.Codes().CreateCode(ctx, code)
		switch {
		case err == nil:
			log.Debug("referral code generated",
				slog.String("owner_id", ownerID),
				slog.String("code", code.Code),
				slog.Int("attempt", attempt+1),
			)
			return code, nil

		case errors.Is(err, store.ErrOwnerHasCode):
			// Lost the get-or-create race; the winner's code is canonical.
			return g.Store.Codes().GetCodeByOwner(ctx, ownerID)

		case errors.Is(err, store.ErrAlreadyExists):
			continue

		default:
			log.Error("failed to create referral code", slog.Any("error", err))
			return domain.ReferralCode{}, err
		}
	}

	log.Error("exhausted referral code candidates", slog.String("owner_id", ownerID))
	return domain.ReferralCode{}, ErrCodeGenerationExhausted
}

// usableBase returns the username-derived base when it validates cleanly,
// otherwise "" to force random candidates.
func (g *CodeGenerator) usableBase(username string) string {
	base := g.Validator.SanitizeBase(username)
	if _, err := g.Validator.Validate(base); err != nil {
		return ""
	}
	return base
}

func (g *CodeGenerator) candidate(base string, attempt int) (string, error) {
	// No usable base, or past the derived attempts: random full-length code.
	if base == "" || attempt >= generateMaxAttempts {
		return randomCode(CodeMaxLength)
	}

	if attempt == 0 {
		return base, nil
	}

	// Suffixed: BASE-XXXX, truncating the base to stay within bounds.
	trimmed := base
	if limit := CodeMaxLength - suffixLength - len(suffixDivider); len(trimmed) > limit {
		trimmed = trimmed[:limit]
	}
	suffix, err := randomCode(suffixLength)
	if err != nil {
		return "", err
	}

	candidate := trimmed + suffixDivider + suffix
	if _, err := g.Validator.Validate(candidate); err != nil {
		// A suffix can land on something objectionable; skip this attempt.
		return "", nil
	}
	return candidate, nil
}

func randomCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
