package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

type AvailabilityHandler struct {
	CodeService *service.CodeService
}

// ServeHTTP godoc
//
//	@Summary		Check Code Availability
//	@Description	Reports whether the caller could claim a code value. Values failing validation rules are
//	@Description	reported as unavailable with the reason. The answer is advisory; uniqueness is enforced
//	@Description	when the code is actually updated. Authentication is optional; authenticated callers'
//	@Description	own current value is reported as available to them.
//	@Tags			Codes
//	@Produce		json
//	@Param			code	query		string							true	"Code value to check"
//	@Success		200		{object}	referralsdk.AvailabilityResponse	"code, available, reason"
//	@Failure		400		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/referral/codes/availability [get].
func (h *AvailabilityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	raw := r.URL.Query().Get("code")
	if raw == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "code query parameter is required",
		})
		return
	}

	userID := httpx.UserIDFromCtx(ctx)

	code, available, err := h.CodeService.CheckAvailability(ctx, userID, raw)
	if err != nil {
		// Rule failures are an expected outcome here, not an error response:
		// the caller asked "can I have this" and the answer is no.
		if reason := ruleReason(err); reason != "" {
			httpx.WriteJSON(w, http.StatusOK, referralsdk.AvailabilityResponse{
				Code:      code,
				Available: false,
				Reason:    reason,
			})
			return
		}

		log.Error("failed to check code availability", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to check availability",
		})
		return
	}

	resp := referralsdk.AvailabilityResponse{Code: code, Available: available}
	if !available {
		resp.Reason = "taken"
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func ruleReason(err error) string {
	switch {
	case errors.Is(err, service.ErrCodeLength):
		return "invalid_length"
	case errors.Is(err, service.ErrCodeCharset):
		return "invalid_charset"
	case errors.Is(err, service.ErrCodeReserved):
		return "reserved"
	case errors.Is(err, service.ErrCodeProfane):
		return "inappropriate"
	}
	return ""
}
