package graph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CodeOK labels successful resolutions in metrics.
const CodeOK = "OK"

// Metrics counts resolver outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the resolver collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghibligraph",
			Subsystem: "resolver",
			Name:      "requests_total",
			Help:      "GraphQL field resolutions by field and result code.",
		}, []string{"field", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ghibligraph",
			Subsystem: "resolver",
			Name:      "duration_seconds",
			Help:      "Time spent resolving a GraphQL field, upstream call included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"field"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(field, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(field, code).Inc()
	m.duration.WithLabelValues(field).Observe(d.Seconds())
}
