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
	ErrCodeTaken    = errors.New("referral code already taken")
	ErrCodeNotFound = errors.New("referral code not found")
)

// Quota actions recorded against the shared rate limit counters.
const (
	actionCodeUpdate   = "code_update"
	actionCodeValidate = "code_validate"
)

// Default quotas. Overridable per instance for testing and ops tuning.
const (
	DefaultUpdateLimit    = 5
	DefaultUpdateWindow   = 24 * time.Hour
	DefaultValidateLimit  = 20
	DefaultValidateWindow = time.Minute
)

// ValidationReason explains why a public code lookup failed.
type ValidationReason string

const (
	ReasonInvalidFormat ValidationReason = "invalid_format"
	ReasonNotFound      ValidationReason = "not_found"
	ReasonInactive      ValidationReason = "inactive"
	ReasonExpired       ValidationReason = "expired"
	ReasonExhausted     ValidationReason = "exhausted"
)

// CodeValidation is the outcome of a public validity check.
type CodeValidation struct {
	Code   string
	Valid  bool
	Reason ValidationReason
}

// CodeService owns the lifecycle of referral code values: creation,
// customization, availability and public validity checks.
type CodeService struct {
	Store     store.Store
	Validator *CodeValidator
	Generator *CodeGenerator
	Limiter   *RateLimiter

	UpdateLimit    int64
	UpdateWindow   time.Duration
	ValidateLimit  int64
	ValidateWindow time.Duration
}

// NewCodeService wires a CodeService with default quotas where the caller
// left them zero.
func NewCodeService(st store.Store, validator *CodeValidator) *CodeService {
	return &CodeService{
		Store:          st,
		Validator:      validator,
		Generator:      &CodeGenerator{Store: st, Validator: validator},
		Limiter:        &RateLimiter{Store: st},
		UpdateLimit:    DefaultUpdateLimit,
		UpdateWindow:   DefaultUpdateWindow,
		ValidateLimit:  DefaultValidateLimit,
		ValidateWindow: DefaultValidateWindow,
	}
}

// GetOrCreateCode returns the owner's code, generating one from the username
// on first touch.
func (s *CodeService) GetOrCreateCode(ctx context.Context, ownerID, username string) (domain.ReferralCode, error) {
	return s.Generator.GetOrCreate(ctx, ownerID, username)
}

// UpdateCode sets a custom code value for the owner.
//
//  1. Validate and normalize the requested value.
//  2. Spend one unit of the owner's daily update quota.
//  3. Rename (or create, on first touch) under the unique index.
//
// The quota is spent on the attempt, not the outcome: a collision still
// counts, which keeps the check a single atomic increment.
func (s *CodeService) UpdateCode(ctx context.Context, ownerID, requested string) (domain.ReferralCode, error) {
	log := slogx.FromContext(ctx)

	code, err := s.Validator.Validate(requested)
	if err != nil {
		return domain.ReferralCode{}, err
	}

	if err := s.Limiter.Check(ctx, ownerID, actionCodeUpdate, s.UpdateLimit, s.UpdateWindow); err != nil {
		return domain.ReferralCode{}, err
	}

	err = s.Store.Codes().RenameCode(ctx, ownerID, code)
	switch {
	case err == nil:
		log.Info("referral code updated",
			slog.String("owner_id", ownerID),
			slog.String("code", code),
		)
		return s.Store.Codes().GetCodeByOwner(ctx, ownerID)

	case errors.Is(err, store.ErrAlreadyExists):
		return domain.ReferralCode{}, ErrCodeTaken

	case errors.Is(err, store.ErrNotFound):
		// First touch via PUT: create the row directly with the custom value.
		return s.createWithValue(ctx, ownerID, code)

	default:
		log.Error("failed to rename referral code", slog.Any("error", err))
		return domain.ReferralCode{}, err
	}
}

func (s *CodeService) createWithValue(ctx context.Context, ownerID, code string) (domain.ReferralCode, error) {
	now := time.Now().UTC()
	rec := domain.ReferralCode{
		ID:        idx.New().String(),
		OwnerID:   ownerID,
		Code:      code,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.Codes().CreateCode(ctx, rec)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.ReferralCode{}, ErrCodeTaken
	case errors.Is(err, store.ErrOwnerHasCode):
		// Raced with auto-generation; apply the rename on the winner's row.
		if err := s.Store.Codes().RenameCode(ctx, ownerID, code); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.ReferralCode{}, ErrCodeTaken
			}
			return domain.ReferralCode{}, err
		}
		return s.Store.Codes().GetCodeByOwner(ctx, ownerID)
	default:
		return domain.ReferralCode{}, err
	}
}

// CheckAvailability reports whether the owner could claim the value. The
// answer is advisory; the unique index has the final say at update time.
// Validation failures surface as errors so the caller can show the reason.
func (s *CodeService) CheckAvailability(ctx context.Context, ownerID, requested string) (string, bool, error) {
	code, err := s.Validator.Validate(requested)
	if err != nil {
		return s.Validator.Normalize(requested), false, err
	}

	exists, err := s.Store.Codes().CodeValueExists(ctx, code, ownerID)
	if err != nil {
		return code, false, err
	}
	return code, !exists, nil
}

// ValidateCode is the public "is this code usable" check, keyed and rate
// limited by caller. Syntactic failures and missing codes are reported the
// same way so the endpoint doesn't leak which codes exist beyond validity.
func (s *CodeService) ValidateCode(ctx context.Context, callerKey, requested string) (CodeValidation, error) {
	if err := s.Limiter.Check(ctx, callerKey, actionCodeValidate, s.ValidateLimit, s.ValidateWindow); err != nil {
		return CodeValidation{}, err
	}

	code, err := s.Validator.Validate(requested)
	if err != nil {
		return CodeValidation{Code: s.Validator.Normalize(requested), Reason: ReasonInvalidFormat}, nil
	}

	rec, err := s.Store.Codes().GetCodeByValue(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CodeValidation{Code: code, Reason: ReasonNotFound}, nil
		}
		return CodeValidation{}, err
	}

	switch {
	case !rec.IsActive:
		return CodeValidation{Code: rec.Code, Reason: ReasonInactive}, nil
	case rec.Expired(time.Now().UTC()):
		return CodeValidation{Code: rec.Code, Reason: ReasonExpired}, nil
	case rec.Exhausted():
		return CodeValidation{Code: rec.Code, Reason: ReasonExhausted}, nil
	}

	return CodeValidation{Code: rec.Code, Valid: true}, nil
}

// Deactivate turns the owner's code off, e.g. when the account is closed or
// abusive. Existing referrals are unaffected; the code just stops consuming.
func (s *CodeService) Deactivate(ctx context.Context, ownerID string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.Codes().SetCodeActive(ctx, ownerID, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCodeNotFound
		}
		log.Error("failed to deactivate referral code", slog.Any("error", err))
		return err
	}

	log.Info("referral code deactivated", slog.String("owner_id", ownerID))
	return nil
}
