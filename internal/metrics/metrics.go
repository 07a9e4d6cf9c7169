// Package metrics exposes Prometheus counters for the relay pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the relay's Prometheus collectors on a private registry
// so the /metrics endpoint only serves what the relay owns.
type Metrics struct {
	registry *prometheus.Registry

	Received        prometheus.Counter
	Rejected        prometheus.Counter
	Published       prometheus.Counter
	PublishFailed   prometheus.Counter
	PipelineSeconds prometheus.Histogram
}

// New builds the relay metrics set.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "whalerelay",
			Name:      "alerts_received_total",
			Help:      "Alerts accepted by the webhook ingress.",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "whalerelay",
			Name:      "alerts_rejected_cooldown_total",
			Help:      "Alerts dropped at admission by the cooldown gate.",
		}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "whalerelay",
			Name:      "alerts_published_total",
			Help:      "Alerts that reached a successful publish.",
		}),
		PublishFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "whalerelay",
			Name:      "alerts_publish_failed_total",
			Help:      "Alerts dropped after a failed publish attempt.",
		}),
		PipelineSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "whalerelay",
			Name:      "pipeline_duration_seconds",
			Help:      "Wall-clock time from admission to terminal state.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}

	registry.MustRegister(m.Received, m.Rejected, m.Published, m.PublishFailed, m.PipelineSeconds)
	return m
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
