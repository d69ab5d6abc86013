package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PublishMetrics records fan-out delivery outcomes per group.
type PublishMetrics struct {
	attempts *prometheus.CounterVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewPublishMetrics registers the fan-out metrics on the provided registerer.
func NewPublishMetrics(reg prometheus.Registerer) *PublishMetrics {
	if reg == nil {
		return &PublishMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publish_attempts_total",
		Help: "Delivery attempts per fan-out target.",
	}, []string{"group_id"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publish_success_total",
		Help: "Successful deliveries per fan-out target.",
	}, []string{"group_id"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publish_failure_total",
		Help: "Failed deliveries per fan-out target.",
	}, []string{"group_id"})
	reg.MustRegister(attempts, success, failure)
	return &PublishMetrics{
		attempts: attempts,
		success:  success,
		failure:  failure,
	}
}

// IncAttempt increments the attempt counter for the named group.
func (p *PublishMetrics) IncAttempt(groupID string) {
	if p == nil || p.attempts == nil {
		return
	}
	p.attempts.WithLabelValues(normalizeLabel(groupID)).Inc()
}

// IncSuccess increments the success counter for the named group.
func (p *PublishMetrics) IncSuccess(groupID string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(groupID)).Inc()
}

// IncFailure increments the failure counter for the named group.
func (p *PublishMetrics) IncFailure(groupID string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(groupID)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
