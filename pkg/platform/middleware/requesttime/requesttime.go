// Package requesttime provides middleware for request-scoped time. All
// operations within a single HTTP request use the same "now" timestamp for
// consistent audit logs and rate-limit decisions.
package requesttime

import (
	"net/http"
	"time"

	"chargeback-gateway/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and
// stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
