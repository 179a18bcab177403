package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the webhook pipeline.
type Metrics struct {
	WebhooksProcessed *prometheus.CounterVec
	WebhookFailures   *prometheus.CounterVec
	ProcessDuration   *prometheus.HistogramVec
}

// New creates and registers the webhook pipeline metrics.
func New() *Metrics {
	return &Metrics{
		WebhooksProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chargeback_webhooks_processed_total",
			Help: "Total number of successfully normalized webhook payloads",
		}, []string{"provider", "event_type"}),
		WebhookFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chargeback_webhook_failures_total",
			Help: "Total number of webhook processing failures by taxonomy kind",
		}, []string{"provider", "kind"}),
		ProcessDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chargeback_webhook_process_duration_seconds",
			Help:    "End-to-end pipeline duration per webhook",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}

// ObserveProcessed records a successful normalization.
func (m *Metrics) ObserveProcessed(provider, eventType string, seconds float64) {
	m.WebhooksProcessed.WithLabelValues(provider, eventType).Inc()
	m.ProcessDuration.WithLabelValues(provider).Observe(seconds)
}

// ObserveFailure records a pipeline failure with its taxonomy kind.
func (m *Metrics) ObserveFailure(provider, kind string, seconds float64) {
	m.WebhookFailures.WithLabelValues(provider, kind).Inc()
	m.ProcessDuration.WithLabelValues(provider).Observe(seconds)
}
