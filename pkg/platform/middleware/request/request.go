// Package request assigns every request a correlation ID and echoes it back
// to the caller.
package request

import (
	"net/http"

	"github.com/google/uuid"

	"chargeback-gateway/pkg/requestcontext"
)

const headerRequestID = "X-Request-Id"

// Middleware reuses an inbound X-Request-Id when present, generates one
// otherwise, and stores it in the context for logging and audit correlation.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(headerRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
