package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

type DeactivateHandler struct {
	CodeService *service.CodeService
}

// ServeHTTP godoc
//
//	@Summary		Deactivate Referral Code
//	@Description	Turns an owner's referral code off, e.g. on account closure or abuse. Existing referrals
//	@Description	are unaffected; the code just stops being consumable.
//	@Tags			Internal
//	@Produce		json
//	@Param			owner	path	string	true	"Owner account ID"
//	@Success		204		"code deactivated"
//	@Failure		401		{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/internal/referral/codes/{owner}/deactivate [post].
func (h *DeactivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.CodeService.Deactivate(ctx, r.PathValue("owner"))
	if err != nil {
		if errors.Is(err, service.ErrCodeNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeNotFound,
				ErrorDescription: "Owner has no referral code",
			})
			return
		}
		log.Error("failed to deactivate referral code", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to deactivate referral code",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
