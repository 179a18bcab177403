package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"chargeback-gateway/internal/ratelimit/metrics"
	"chargeback-gateway/internal/ratelimit/models"
	"chargeback-gateway/pkg/platform/httputil"
	"chargeback-gateway/pkg/requestcontext"
)

// RateLimiter checks whether a merchant is within its request budget.
type RateLimiter interface {
	CheckMerchant(ctx context.Context, merchantID string) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  RateLimiter
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithMetrics attaches Prometheus metrics to the middleware.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mx
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit enforces the per-merchant limit. It must run after merchant
// authentication so the merchant id is present in the request context.
// Store failures fail open: a broken counter should not take down webhook
// ingestion.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		merchantID := requestcontext.MerchantID(ctx)
		if merchantID == "" {
			next.ServeHTTP(w, r)
			return
		}

		result, err := m.limiter.CheckMerchant(ctx, merchantID)
		if err != nil {
			m.logger.Error("failed to check merchant rate limit", "error", err, "merchant_id", merchantID)
			next.ServeHTTP(w, r)
			return
		}

		// Headers are set regardless of outcome so clients can pace
		// themselves before hitting the limit.
		addRateLimitHeaders(w, result)

		if m.metrics != nil {
			m.metrics.ObserveCheck(result.Allowed)
		}

		if !result.Allowed {
			if m.metrics != nil {
				m.metrics.ObserveRejection(merchantID)
			}
			m.logger.Warn("merchant rate limit exceeded",
				"merchant_id", merchantID,
				"limit", result.Limit,
				"retry_after", result.RetryAfter,
			)
			writeRateLimitExceeded(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests for this merchant. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
