package http

import (
	"net/http"

	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

type ValidateHandler struct {
	CodeService *service.CodeService
}

// ServeHTTP godoc
//
//	@Summary		Validate Referral Code
//	@Description	Public check of whether a referral code is currently usable: it exists, is active,
//	@Description	unexpired and under its usage cap. Does not consume a use. Limited to 20 checks per
//	@Description	minute per caller.
//	@Tags			Codes
//	@Produce		json
//	@Param			code	path		string							true	"Code value to validate"
//	@Success		200		{object}	referralsdk.ValidationResponse	"code, valid, reason"
//	@Failure		429		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/referral/codes/{code}/validate [get].
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Caller key: user when authenticated, client IP otherwise.
	callerKey := httpx.UserIDFromCtx(ctx)
	if callerKey == "" {
		callerKey = httpx.IPKeyExtractor(r)
	}

	result, err := h.CodeService.ValidateCode(ctx, callerKey, r.PathValue("code"))
	if err != nil {
		if writeRateLimitError(w, err) {
			return
		}
		log.Error("failed to validate referral code", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to validate code",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, referralsdk.ValidationResponse{
		Code:   result.Code,
		Valid:  result.Valid,
		Reason: string(result.Reason),
	})
}
