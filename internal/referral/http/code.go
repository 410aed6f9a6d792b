package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

type CodeHandler struct {
	CodeService *service.CodeService
}

// HandleGet godoc
//
//	@Summary		Get Referral Code
//	@Description	Returns the caller's referral code, generating one from their username on first access.
//	@Tags			Codes
//	@Produce		json
//	@Success		200	{object}	referralsdk.CodeResponse	"code, is_active, use_count"
//	@Failure		401	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/referral/code [get].
func (h *CodeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	username := httpx.UsernameFromCtx(ctx)

	code, err := h.CodeService.GetOrCreateCode(ctx, userID, username)
	if err != nil {
		log.Error("failed to get or create referral code", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to load referral code",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, codeResponse(code))
}

// HandlePut godoc
//
//	@Summary		Update Referral Code
//	@Description	Replaces the caller's referral code with a custom value. The value is normalized to uppercase,
//	@Description	checked against length, charset, reserved word and profanity rules, and must be globally unique.
//	@Description	Limited to 5 updates per UTC day.
//	@Tags			Codes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		referralsdk.UpdateCodeRequest	true	"Requested code value"
//	@Success		200		{object}	referralsdk.CodeResponse		"code, is_active, use_count"
//	@Failure		400		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		429		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/referral/code [put].
func (h *CodeHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req referralsdk.UpdateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "code is required and must be 3-20 characters",
		})
		return
	}

	userID := httpx.UserIDFromCtx(ctx)

	code, err := h.CodeService.UpdateCode(ctx, userID, req.Code)
	if err != nil {
		switch {
		case writeCodeRuleError(w, err):
		case writeRateLimitError(w, err):
		case errors.Is(err, service.ErrCodeTaken):
			httpx.WriteJSON(w, http.StatusConflict, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeCodeTaken,
				ErrorDescription: "Code is already taken",
			})
		default:
			log.Error("failed to update referral code", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to update referral code",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, codeResponse(code))
}
