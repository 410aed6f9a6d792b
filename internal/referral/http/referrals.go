package http

import (
	"net/http"

	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

type ReferralsHandler struct {
	AttributionService *service.AttributionService
}

// ServeHTTP godoc
//
//	@Summary		List Referrals
//	@Description	Returns the caller's referrals, newest first, with each referral's lifecycle status.
//	@Tags			Referrals
//	@Produce		json
//	@Success		200	{object}	referralsdk.ReferralsResponse	"referrals"
//	@Failure		401	{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	referralsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/referral/referrals [get].
func (h *ReferralsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	referrals, err := h.AttributionService.ListReferrals(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		log.Error("failed to list referrals", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list referrals",
		})
		return
	}

	resp := referralsdk.ReferralsResponse{
		Referrals: make([]referralsdk.ReferralResponse, 0, len(referrals)),
	}
	for _, referral := range referrals {
		resp.Referrals = append(resp.Referrals, referralResponse(referral))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
