// Package admin guards operator-only endpoints with a static admin token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"chargeback-gateway/pkg/platform/httputil"
	"chargeback-gateway/pkg/requestcontext"
)

// RequireAdminToken rejects requests whose X-Admin-Token header does not
// match the expected token. An empty expected token disables the routes
// entirely rather than leaving them open.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			// Constant-time comparison to prevent timing attacks.
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteErrorBody(w, http.StatusUnauthorized, "AuthError", "admin token required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
