// Package service orchestrates the webhook normalization pipeline: registry
// lookup, validation, extraction, mapping, and post-processing, classifying
// every failure into the webhook error taxonomy.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chargeback-gateway/internal/webhook"
	"chargeback-gateway/internal/webhook/metrics"
	"chargeback-gateway/internal/webhook/registry"
)

// Engine evaluates a mapping expression against a payload. Satisfied by
// engine.Engine; kept as an interface so pipeline tests can inject failures.
type Engine interface {
	Evaluate(expression string, payload webhook.Payload) (any, error)
}

// Service runs the normalization pipeline. It is stateless per request: the
// registry and mappers are read-only after startup, so concurrent calls need
// no coordination.
type Service struct {
	registry *registry.Registry
	engine   Engine
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the orchestrator.
func New(reg *registry.Registry, eng Engine, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		engine:   eng,
		logger:   logger,
		tracer:   otel.Tracer("chargeback-gateway/internal/webhook/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process normalizes a provider webhook payload into the canonical record.
//
// The pipeline is a linear state machine; every state either advances or
// fails with its bound taxonomy entry and the pipeline halts immediately. No
// state retries: all failures are deterministic functions of the input.
// Optional pre/post-processing capabilities pass through when the mapper does
// not implement them.
func (s *Service) Process(ctx context.Context, payload webhook.Payload, provider string) (webhook.Record, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "webhook.process",
		trace.WithAttributes(attribute.String("webhook.provider", provider)))
	defer span.End()

	record, eventType, err := s.run(ctx, payload, provider)
	if err != nil {
		werr := webhook.Classify(err)
		span.RecordError(werr)
		span.SetStatus(codes.Error, string(werr.Kind))
		if s.metrics != nil {
			s.metrics.ObserveFailure(provider, string(werr.Kind), time.Since(start).Seconds())
		}
		s.logger.WarnContext(ctx, "webhook processing failed",
			"provider", provider,
			"event_type", eventType,
			"kind", werr.Kind,
			"error", werr.Message,
		)
		return nil, werr
	}

	span.SetAttributes(attribute.String("webhook.event_type", eventType))
	if s.metrics != nil {
		s.metrics.ObserveProcessed(provider, eventType, time.Since(start).Seconds())
	}
	s.logger.InfoContext(ctx, "webhook processed",
		"provider", provider,
		"event_type", eventType,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return record, nil
}

// run walks the pipeline states. eventType is returned for observability even
// on failure paths that occur after extraction.
func (s *Service) run(ctx context.Context, payload webhook.Payload, provider string) (webhook.Record, string, error) {
	// LookupProvider
	mapper, ok := s.registry.Lookup(provider)
	if !ok {
		return nil, "", webhook.NewProviderNotFound(provider, s.registry.Providers())
	}

	// ValidatePayload
	if err := mapper.ValidatePayload(payload); err != nil {
		return nil, "", err
	}

	// PreProcess (optional capability, pass-through when absent)
	if pre, ok := mapper.(webhook.PreProcessor); ok {
		payload = pre.PreProcess(payload)
	}

	// ExtractEventType
	eventType, ok := mapper.ExtractEventType(payload)
	if !ok {
		return nil, "", webhook.NewEventTypeNotFound("unknown", provider)
	}

	// VerifyEventType
	if !mapper.VerifyEventType(eventType) {
		return nil, eventType, webhook.NewEventTypeNotFound(eventType, provider)
	}

	// ResolveExpression
	expression, ok := mapper.MappingExpression(eventType)
	if !ok {
		return nil, eventType, webhook.NewExpressionNotFound(eventType, provider)
	}

	// Evaluate
	result, err := s.engine.Evaluate(expression, payload)
	if err != nil {
		return nil, eventType, err
	}
	record, ok := result.(map[string]any)
	if !ok {
		return nil, eventType, webhook.NewMappingExecution("mapping expression must produce an object", nil)
	}

	// PostProcess (optional capability, pass-through when absent)
	if post, ok := mapper.(webhook.PostProcessor); ok {
		record, err = post.PostProcess(record)
		if err != nil {
			return nil, eventType, err
		}
	}

	return record, eventType, nil
}
