// Package middleware gates webhook requests behind merchant authentication.
// The guard runs strictly before the pipeline; on success the resolved
// merchant ID is the only state it hands downstream.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"chargeback-gateway/internal/merchant/token"
	"chargeback-gateway/pkg/platform/httputil"
	"chargeback-gateway/pkg/requestcontext"
)

const (
	headerAPIKey     = "X-Forter-API-Key"
	headerMerchantID = "X-Merchant-Id"
	bearerPrefix     = "Bearer "
)

// Resolver turns credentials into merchant identity. Implemented by the
// merchant service.
type Resolver interface {
	ResolveAPIKey(ctx context.Context, apiKey string) (string, error)
	ValidateMerchantID(ctx context.Context, merchantID string) error
}

// TokenValidator validates merchant bearer tokens. Implemented by the token
// service; nil disables the token path.
type TokenValidator interface {
	Validate(tokenString string) (string, error)
}

// Guard authenticates merchants from request headers.
type Guard struct {
	resolver Resolver
	tokens   TokenValidator
	logger   *slog.Logger
}

// NewGuard constructs the merchant auth guard.
func NewGuard(resolver Resolver, tokens TokenValidator, logger *slog.Logger) *Guard {
	return &Guard{resolver: resolver, tokens: tokens, logger: logger}
}

// RequireMerchant resolves the caller's credential from the Authorization
// header or X-Forter-API-Key (either may carry an optional Bearer prefix,
// case-insensitive, trimmed). When X-Merchant-Id is present it must match the
// resolved identity. Failures are guard rejections: 403 with no hint about
// which check failed.
func (g *Guard) RequireMerchant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		credential := extractCredential(r)
		if credential == "" {
			g.reject(ctx, w, "missing credential")
			return
		}

		merchantID, err := g.resolve(ctx, credential)
		if err != nil {
			g.reject(ctx, w, "credential resolution failed")
			return
		}

		if headerID := r.Header.Get(headerMerchantID); headerID != "" {
			if headerID != merchantID {
				g.reject(ctx, w, "merchant id mismatch")
				return
			}
			if err := g.resolver.ValidateMerchantID(ctx, headerID); err != nil {
				g.reject(ctx, w, "merchant id invalid")
				return
			}
		}

		ctx = requestcontext.WithMerchantID(ctx, merchantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Guard) resolve(ctx context.Context, credential string) (string, error) {
	if g.tokens != nil && token.LooksLikeToken(credential) {
		if merchantID, err := g.tokens.Validate(credential); err == nil {
			return merchantID, nil
		}
		// A JWT-shaped credential that fails validation is never retried as
		// a raw API key; keys are opaque strings, not dotted triples.
		return "", token.ErrInvalidToken
	}
	return g.resolver.ResolveAPIKey(ctx, credential)
}

// extractCredential checks Authorization first, then X-Forter-API-Key, and
// strips an optional case-insensitive Bearer prefix from either.
func extractCredential(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return stripBearer(auth)
	}
	if key := r.Header.Get(headerAPIKey); key != "" {
		return stripBearer(key)
	}
	return ""
}

func stripBearer(credential string) string {
	credential = strings.TrimSpace(credential)
	if len(credential) >= len(bearerPrefix) &&
		strings.EqualFold(credential[:len(bearerPrefix)], bearerPrefix) {
		credential = credential[len(bearerPrefix):]
	}
	return strings.TrimSpace(credential)
}

func (g *Guard) reject(ctx context.Context, w http.ResponseWriter, reason string) {
	g.logger.WarnContext(ctx, "merchant auth rejected",
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
		"client_ip", requestcontext.ClientIP(ctx),
	)
	httputil.WriteErrorBody(w, http.StatusForbidden, "AuthError", "merchant authentication failed")
}
