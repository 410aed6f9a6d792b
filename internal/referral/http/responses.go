package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/referral/internal/referral/domain"
	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/go-playground/validator/v10"
)

// validate checks request DTOs against their struct tags.
var validate = validator.New()

func codeResponse(c domain.ReferralCode) referralsdk.CodeResponse {
	return referralsdk.CodeResponse{
		Code:      c.Code,
		IsActive:  c.IsActive,
		UseCount:  c.UseCount,
		MaxUses:   c.MaxUses,
		Remaining: c.Remaining(),
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func referralResponse(r domain.Referral) referralsdk.ReferralResponse {
	return referralsdk.ReferralResponse{
		ID:          r.ID,
		ReferredID:  r.ReferredID,
		Code:        r.CodeUsed,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
		RewardedAt:  r.RewardedAt,
	}
}

// writeCodeRuleError maps code validation failures onto the error envelope.
// Reports whether err was one of them.
func writeCodeRuleError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrCodeLength):
		httpx.WriteJSON(w, http.StatusBadRequest, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Code must be between 3 and 20 characters",
		})
	case errors.Is(err, service.ErrCodeCharset):
		httpx.WriteJSON(w, http.StatusBadRequest, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Code may only contain letters, digits, hyphens and underscores",
		})
	case errors.Is(err, service.ErrCodeReserved):
		httpx.WriteJSON(w, http.StatusBadRequest, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeCodeReserved,
			ErrorDescription: "Code is a reserved word",
		})
	case errors.Is(err, service.ErrCodeProfane):
		httpx.WriteJSON(w, http.StatusBadRequest, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeCodeProfane,
			ErrorDescription: "Code contains inappropriate language",
		})
	default:
		return false
	}
	return true
}

// writeRateLimitError maps a quota rejection, including the Retry-After
// header. Reports whether err was one.
func writeRateLimitError(w http.ResponseWriter, err error) bool {
	var rle *service.RateLimitError
	if !errors.As(err, &rle) {
		return false
	}

	retryAfter := max(int(rle.RetryAfter.Seconds()), 1)
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	httpx.WriteJSON(w, http.StatusTooManyRequests, referralsdk.ErrorResponse{
		Error:            referralsdk.ErrorCodeRateLimitExceeded,
		ErrorDescription: "Too many requests. Please try again later.",
	})
	return true
}
