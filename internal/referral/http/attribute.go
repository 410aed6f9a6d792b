package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/internal/referral/store"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

type AttributeHandler struct {
	AttributionService *service.AttributionService
}

// ServeHTTP godoc
//
//	@Summary		Attribute Signup
//	@Description	Records that a newly signed-up account was referred by a code, consuming one use of it.
//	@Description	The consume and the referral record land in one transaction. An account can be attributed
//	@Description	at most once, ever; the referred account must not be the code owner.
//	@Tags			Internal
//	@Accept			json
//	@Produce		json
//	@Param			request	body		referralsdk.AttributionRequest	true	"Referred account and code"
//	@Success		201		{object}	referralsdk.AttributionResponse	"id, referrer_id, referred_id, code, status"
//	@Failure		400		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/internal/referral/attributions [post].
func (h *AttributeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req referralsdk.AttributionRequest
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
			ErrorDescription: "referred_id and code are required",
		})
		return
	}

	referral, err := h.AttributionService.AttributeSignup(ctx, req.ReferredID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeNotFound,
				ErrorDescription: "Referral code not found",
			})
		case errors.Is(err, service.ErrSelfReferral):
			httpx.WriteJSON(w, http.StatusBadRequest, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeSelfReferral,
				ErrorDescription: "A code cannot refer its own owner",
			})
		case errors.Is(err, service.ErrAlreadyReferred):
			httpx.WriteJSON(w, http.StatusConflict, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeAlreadyReferred,
				ErrorDescription: "Account is already attributed to a referral",
			})
		case errors.Is(err, store.ErrCodeInactive):
			httpx.WriteJSON(w, http.StatusConflict, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeCodeInactive,
				ErrorDescription: "Referral code is inactive",
			})
		case errors.Is(err, store.ErrCodeExpired):
			httpx.WriteJSON(w, http.StatusConflict, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeCodeExpired,
				ErrorDescription: "Referral code has expired",
			})
		case errors.Is(err, store.ErrCapacityExceeded):
			httpx.WriteJSON(w, http.StatusConflict, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeCodeExhausted,
				ErrorDescription: "Referral code has reached its usage cap",
			})
		default:
			log.Error("failed to attribute signup", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to attribute signup",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, referralsdk.AttributionResponse{
		ID:         referral.ID,
		ReferrerID: referral.ReferrerID,
		ReferredID: referral.ReferredID,
		Code:       referral.CodeUsed,
		Status:     string(referral.Status),
		CreatedAt:  referral.CreatedAt,
	})
}
