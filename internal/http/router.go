// Package httpapi assembles the gateway's HTTP surface: the authenticated
// webhook ingestion route, operator endpoints, and operational probes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "chargeback-gateway/internal/admin"
	merchantmw "chargeback-gateway/internal/merchant/middleware"
	ratelimitmw "chargeback-gateway/internal/ratelimit/middleware"
	webhookhandler "chargeback-gateway/internal/webhook/handler"
	adminmw "chargeback-gateway/pkg/platform/middleware/admin"
	"chargeback-gateway/pkg/platform/middleware/metadata"
	"chargeback-gateway/pkg/platform/middleware/request"
	"chargeback-gateway/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts. Optional fields may be nil and
// the corresponding routes or middleware are skipped.
type Deps struct {
	Webhook   *webhookhandler.Handler
	Admin     *adminhandler.Handler
	Guard     *merchantmw.Guard
	RateLimit *ratelimitmw.Middleware

	// APIPrefix is the path segment the ingestion API mounts under, e.g.
	// "api" mounts the webhook at /api/webhook.
	APIPrefix string
	// AdminToken guards /admin routes; empty disables them.
	AdminToken string

	// Health, when set, is consulted by /healthz; a failure degrades the
	// probe to 503 so orchestrators can restart the instance.
	Health HealthChecker

	Logger *slog.Logger
}

// HealthChecker reports the health of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all routes with their middleware chains. The webhook route
// authenticates the merchant before rate limiting so limits are keyed by
// verified merchant id rather than anything client-controlled.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", handleHealthz(deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/"+deps.APIPrefix, func(api chi.Router) {
		api.Group(func(g chi.Router) {
			if deps.Guard != nil {
				g.Use(deps.Guard.RequireMerchant)
			}
			if deps.RateLimit != nil {
				g.Use(deps.RateLimit.RateLimit)
			}
			deps.Webhook.Register(g)
		})
	})

	if deps.Admin != nil {
		r.Group(func(g chi.Router) {
			g.Use(adminmw.RequireAdminToken(deps.AdminToken, deps.Logger))
			deps.Admin.Register(g)
		})
	}

	return r
}

func handleHealthz(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if checker != nil {
			if err := checker.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
