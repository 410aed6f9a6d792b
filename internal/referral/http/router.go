package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/internal/referral/store"
	"github.com/aussiebroadwan/referral/pkg/httpx"
	"github.com/aussiebroadwan/referral/pkg/jwtx"
	"github.com/aussiebroadwan/referral/pkg/slogx"

	_ "github.com/aussiebroadwan/referral/api/referral" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      jwtx.Verifier
	serviceTokens map[string]string
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger

	store              store.Store
	CodeService        *service.CodeService
	AttributionService *service.AttributionService
}

func NewRouter(
	verifier jwtx.Verifier,
	serviceTokens map[string]string,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		serviceTokens: serviceTokens,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCodes()
	r.registerReferrals()
	r.registerInternal()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			BarTab Referral Service API
//	@version		0.1.0
//	@description	Referral code and attribution engine: per-account referral codes, signup attribution
//	@description	with atomic code consumption, and the PENDING/COMPLETED/REWARDED referral lifecycle.
//	@description
//	@description				User endpoints authenticate with JWT access tokens minted by the auth service.
//	@description				Internal endpoints authenticate with static service tokens.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/referral
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token or service token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerCodes() {
	codeHandler := &CodeHandler{CodeService: r.CodeService}

	// GET /code - lenient rate limit by user (read, creates on first touch)
	r.Mux.Handle("GET /v1/referral/code",
		httpx.Chain(http.HandlerFunc(codeHandler.HandleGet),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("referral:read", "referral:write"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// PUT /code - moderate front-line limit by user; the 5-per-day business
	// quota is enforced in the service against the shared store
	r.Mux.Handle("PUT /v1/referral/code",
		httpx.Chain(http.HandlerFunc(codeHandler.HandlePut),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("referral:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /codes/availability - public typed-as-you-go check; a bearer token is
	// optional and excludes the caller's own current value from the lookup
	availabilityHandler := &AvailabilityHandler{CodeService: r.CodeService}
	r.Mux.Handle("GET /v1/referral/codes/availability",
		httpx.Chain(availabilityHandler,
			httpx.OptionalAuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /codes/{code}/validate - public; IP front-line limit plus the
	// 20-per-minute business quota inside the service
	validateHandler := &ValidateHandler{CodeService: r.CodeService}
	r.Mux.Handle("GET /v1/referral/codes/{code}/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerReferrals() {
	referralsHandler := &ReferralsHandler{AttributionService: r.AttributionService}
	statsHandler := &StatsHandler{AttributionService: r.AttributionService}

	r.Mux.Handle("GET /v1/referral/referrals",
		httpx.Chain(referralsHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("referral:read", "referral:write"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /v1/referral/stats",
		httpx.Chain(statsHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("referral:read", "referral:write"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerInternal() {
	attributeHandler := &AttributeHandler{AttributionService: r.AttributionService}
	signalsHandler := &SignalsHandler{AttributionService: r.AttributionService}
	deactivateHandler := &DeactivateHandler{CodeService: r.CodeService}

	// Internal endpoints are service-to-service only; generous IP limit since
	// callers are trusted peers behind the same network boundary.
	serviceAuth := httpx.ServiceAuthMiddleware(r.serviceTokens)

	r.Mux.Handle("POST /v1/internal/referral/attributions",
		httpx.Chain(attributeHandler,
			serviceAuth,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /v1/internal/referral/referrals/{id}/complete",
		httpx.Chain(http.HandlerFunc(signalsHandler.HandleComplete),
			serviceAuth,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /v1/internal/referral/referrals/{id}/reward",
		httpx.Chain(http.HandlerFunc(signalsHandler.HandleReward),
			serviceAuth,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /v1/internal/referral/codes/{owner}/deactivate",
		httpx.Chain(deactivateHandler,
			serviceAuth,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
