package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksTotal     *prometheus.CounterVec
	RejectionsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chargeback_ratelimit_checks_total",
			Help: "Total number of rate limit checks performed",
		}, []string{"outcome"}),
		RejectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chargeback_ratelimit_rejections_total",
			Help: "Total number of requests rejected by rate limiting",
		}, []string{"merchant_id"}),
	}
}

func (m *Metrics) ObserveCheck(allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "rejected"
	}
	m.ChecksTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRejection(merchantID string) {
	m.RejectionsTotal.WithLabelValues(merchantID).Inc()
}
