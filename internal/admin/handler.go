// Package admin exposes operator-only read endpoints: registered providers
// and seeded merchants. Guarded by the admin token middleware at the router.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chargeback-gateway/internal/merchant/models"
	"chargeback-gateway/pkg/platform/httputil"
)

// ProviderLister reports the providers registered at startup.
type ProviderLister interface {
	Providers() []string
}

// MerchantLister lists merchants able to authenticate.
type MerchantLister interface {
	ListActive(ctx context.Context) ([]*models.Merchant, error)
}

type Handler struct {
	providers ProviderLister
	merchants MerchantLister
	logger    *slog.Logger
}

func New(providers ProviderLister, merchants MerchantLister, logger *slog.Logger) *Handler {
	return &Handler{
		providers: providers,
		merchants: merchants,
		logger:    logger,
	}
}

// Register registers admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/providers", h.handleListProviders)
	r.Get("/admin/merchants", h.handleListMerchants)
}

func (h *Handler) handleListProviders(w http.ResponseWriter, r *http.Request) {
	providers := h.providers.Providers()
	httputil.WriteJSON(w, http.StatusOK, ProvidersResponse{
		Providers: providers,
		Total:     len(providers),
	})
}

func (h *Handler) handleListMerchants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	merchants, err := h.merchants.ListActive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list merchants", "error", err)
		httputil.WriteErrorBody(w, http.StatusInternalServerError, "InternalError", "failed to list merchants")
		return
	}

	resp := MerchantsListResponse{Total: len(merchants)}
	for _, m := range merchants {
		resp.Merchants = append(resp.Merchants, &MerchantInfoResponse{
			ID:        m.ID,
			Name:      m.Name,
			Active:    m.Active,
			CreatedAt: m.CreatedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
