package testutil

import (
	"net/http"

	"chargeback-gateway/pkg/requestcontext"
)

// WithMerchant adds an authenticated merchant ID to the request context,
// simulating what the merchant auth middleware does for authorized requests.
func WithMerchant(req *http.Request, merchantID string) *http.Request {
	ctx := requestcontext.WithMerchantID(req.Context(), merchantID)
	return req.WithContext(ctx)
}

// WithRequestID adds a correlation ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}
