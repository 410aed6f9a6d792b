package http

import (
	"net/http"

	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

type StatsHandler struct {
	AttributionService *service.AttributionService
}

// ServeHTTP godoc
//
//	@Summary		Referral Statistics
//	@Description	Returns the caller's referral counts aggregated by lifecycle status.
//	@Tags			Referrals
//	@Produce		json
//	@Success		200	{object}	referralsdk.StatsResponse	"total, pending, completed, rewarded"
//	@Failure		401	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	referralsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/referral/stats [get].
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stats, err := h.AttributionService.Stats(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		log.Error("failed to load referral stats", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, referralsdk.ErrorResponse{
			Error:            referralsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to load referral stats",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, referralsdk.StatsResponse{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Completed: stats.Completed,
		Rewarded:  stats.Rewarded,
	})
}
