package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/referral/pkg/cryptox"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

// ServiceAuthMiddleware authenticates internal service-to-service calls with
// static bearer tokens. tokens maps a caller name to the SHA-256 fingerprint
// of its token, so the plaintext never has to live in config. The matched
// caller name is placed on the context under CtxKeyService.
func ServiceAuthMiddleware(tokens map[string]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			caller, ok := matchServiceToken(tokens, raw)
			if !ok {
				writeBearerError(w, "unknown service token")
				log.Warn("service token rejected", "path", r.URL.Path)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyService, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func matchServiceToken(tokens map[string]string, raw string) (string, bool) {
	// Compare against every registered fingerprint so timing doesn't leak
	// which caller (if any) matched.
	var matched string
	for name, fp := range tokens {
		if cryptox.VerifyTokenFingerprint(raw, fp) {
			matched = name
		}
	}
	return matched, matched != ""
}
