package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the API exports. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResourceWrites  *prometheus.CounterVec
	Cancellations   *prometheus.CounterVec
	HubDeliveries   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tmf",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tmf",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ResourceWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tmf",
			Name:      "resource_writes_total",
			Help:      "Successful resource writes by kind and operation.",
		}, []string{"kind", "op"}),
		Cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tmf",
			Name:      "order_cancellations_total",
			Help:      "Cancel requests by outcome of the order side effect.",
		}, []string{"outcome"}),
		HubDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tmf",
			Name:      "hub_deliveries_total",
			Help:      "Event notifications sent to hub callbacks by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(m.Requests, m.RequestDuration, m.ResourceWrites, m.Cancellations, m.HubDeliveries)
	}
	return m
}

// ObserveWrite counts a successful create/update/delete.
func (m *Metrics) ObserveWrite(kind, op string) {
	if m == nil {
		return
	}
	m.ResourceWrites.WithLabelValues(kind, op).Inc()
}

// ObserveCancellation counts the outcome of a cancel request side effect.
func (m *Metrics) ObserveCancellation(outcome string) {
	if m == nil {
		return
	}
	m.Cancellations.WithLabelValues(outcome).Inc()
}

// ObserveHubDelivery counts one callback attempt.
func (m *Metrics) ObserveHubDelivery(result string) {
	if m == nil {
		return
	}
	m.HubDeliveries.WithLabelValues(result).Inc()
}
