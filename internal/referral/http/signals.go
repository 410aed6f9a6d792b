package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/referral/internal/referral/domain"
	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

type SignalsHandler struct {
	AttributionService *service.AttributionService
}

// HandleComplete godoc
//
//	@Summary		Complete Referral
//	@Description	Signals that the referred account has met the qualification criterion, moving the referral
//	@Description	from PENDING to COMPLETED. Idempotent: repeat signals return the current state without
//	@Description	re-applying the transition.
//	@Tags			Internal
//	@Produce		json
//	@Param			id	path		string						true	"Referral ID"
//	@Success		200	{object}	referralsdk.ReferralResponse	"id, status, completed_at"
//	@Failure		401	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/internal/referral/referrals/{id}/complete [post].
func (h *SignalsHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.signal(w, r, h.AttributionService.SignalCompleted)
}

// HandleReward godoc
//
//	@Summary		Reward Referral
//	@Description	Signals that the referral reward has been issued, moving the referral from COMPLETED to
//	@Description	REWARDED. Rewarding a referral that is still PENDING is refused. Idempotent on repeat.
//	@Tags			Internal
//	@Produce		json
//	@Param			id	path		string						true	"Referral ID"
//	@Success		200	{object}	referralsdk.ReferralResponse	"id, status, rewarded_at"
//	@Failure		401	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/internal/referral/referrals/{id}/reward [post].
func (h *SignalsHandler) HandleReward(w http.ResponseWriter, r *http.Request) {
	h.signal(w, r, h.AttributionService.SignalRewarded)
}

func (h *SignalsHandler) signal(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, referralID string) (domain.Referral, error),
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	referral, err := transition(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReferralNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeNotFound,
				ErrorDescription: "Referral not found",
			})
		case errors.Is(err, service.ErrNotYetCompleted):
			httpx.WriteJSON(w, http.StatusConflict, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeNotYetCompleted,
				ErrorDescription: "Referral has not been completed",
			})
		default:
			log.Error("failed to apply referral transition", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
				Error:            referralsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to update referral",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, referralResponse(referral))
}
