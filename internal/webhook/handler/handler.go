// Package handler exposes the webhook ingestion endpoint. It owns the HTTP
// boundary only: decoding, status mapping, and the audit trail. Pipeline
// semantics live in the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chargeback-gateway/internal/audit"
	"chargeback-gateway/internal/webhook"
	"chargeback-gateway/pkg/platform/httputil"
	"chargeback-gateway/pkg/requestcontext"
)

// Service runs the normalization pipeline for one webhook.
type Service interface {
	Process(ctx context.Context, payload webhook.Payload, provider string) (webhook.Record, error)
}

// Publisher records audit events without blocking the request.
type Publisher interface {
	Emit(event audit.Event)
}

// Handler handles webhook ingestion endpoints.
type Handler struct {
	service Service
	audit   Publisher
	logger  *slog.Logger
}

// New creates a webhook Handler. The audit publisher may be nil when the
// audit trail is not wired (tests).
func New(service Service, publisher Publisher, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		audit:   publisher,
		logger:  logger,
	}
}

// Register registers webhook routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/webhook", h.handleWebhook)
}

// webhookRequest is the ingestion envelope: the provider payload nests under
// "payload" rather than being the request body itself.
type webhookRequest struct {
	Payload webhook.Payload `json:"payload"`
}

// webhookResponse wraps the canonical record on success.
type webhookResponse struct {
	Result webhook.Record `json:"result"`
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider := r.URL.Query().Get("provider")
	if provider == "" {
		httputil.WriteErrorBody(w, http.StatusBadRequest,
			string(webhook.CategoryValidation),
			"provider query parameter is required",
			httputil.Detail{Field: "provider", Issue: "missing required query parameter"},
		)
		return
	}

	var req webhookRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid webhook request body",
			"provider", provider,
			"error", err.Error(),
		)
		httputil.WriteErrorBody(w, http.StatusBadRequest,
			string(webhook.CategoryValidation),
			"invalid request body: "+err.Error(),
		)
		return
	}

	record, err := h.service.Process(ctx, req.Payload, provider)
	if err != nil {
		werr := webhook.Classify(err)
		h.emitAudit(ctx, provider, werr, nil)
		writeTaxonomyError(w, werr)
		return
	}

	h.emitAudit(ctx, provider, nil, record)

	w.Header().Set("X-Webhook-Processed", "true")
	httputil.WriteJSON(w, http.StatusOK, webhookResponse{Result: record})
}

// statusForKind maps taxonomy kinds to HTTP statuses. Client-correctable
// failures are 400s; engine and unexpected failures are 500s.
func statusForKind(kind webhook.Kind) int {
	switch kind {
	case webhook.KindProviderNotFound,
		webhook.KindEventTypeNotFound,
		webhook.KindExpressionNotFound,
		webhook.KindPayloadValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeTaxonomyError(w http.ResponseWriter, werr *webhook.Error) {
	details := make([]httputil.Detail, 0, len(werr.Details))
	for _, d := range werr.Details {
		details = append(details, httputil.Detail{Field: d.Field, Issue: d.Issue})
	}
	httputil.WriteErrorBody(w, statusForKind(werr.Kind),
		string(werr.Kind.Category()), werr.Message, details...)
}

func (h *Handler) emitAudit(ctx context.Context, provider string, werr *webhook.Error, record webhook.Record) {
	if h.audit == nil {
		return
	}

	event := audit.Event{
		RequestID:  requestcontext.RequestID(ctx),
		MerchantID: requestcontext.MerchantID(ctx),
		Provider:   provider,
		ClientIP:   requestcontext.ClientIP(ctx),
	}

	switch {
	case werr == nil:
		event.Outcome = audit.OutcomeProcessed
		// Mappers without post-processing may emit loosely-typed records;
		// audit enrichment is best effort.
		if cb, err := webhook.DecodeChargeback(record); err == nil {
			event.TransactionID = cb.TransactionID
		}
	case werr.Kind == webhook.KindInternal || werr.Kind == webhook.KindMappingExecution:
		event.Outcome = audit.OutcomeFailed
		event.FailureKind = string(werr.Kind)
	default:
		event.Outcome = audit.OutcomeRejected
		event.FailureKind = string(werr.Kind)
	}

	h.audit.Emit(event)
}
