package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application metrics that are safe to scrape via Prometheus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	gatewayRequests *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	viewIntents     *prometheus.CounterVec
	sessionsActive  prometheus.Gauge
}

// New creates a fresh registry with gateway, intent and session metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	gatewayRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "floormap",
		Name:      "gateway_requests_total",
		Help:      "Count of inventory API calls by operation and status",
	}, []string{"op", "status"})

	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "floormap",
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of inventory API calls",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op", "status"})

	viewIntents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "floormap",
		Name:      "view_intents_total",
		Help:      "Count of view intents dispatched by outcome",
	}, []string{"intent", "outcome"})

	sessionsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "floormap",
		Name:      "sessions_active",
		Help:      "Number of live map view sessions",
	})

	registry.MustRegister(gatewayRequests, gatewayDuration, viewIntents, sessionsActive)

	return &Metrics{
		registry:        registry,
		gatewayRequests: gatewayRequests,
		gatewayDuration: gatewayDuration,
		viewIntents:     viewIntents,
		sessionsActive:  sessionsActive,
	}
}

// ObserveGatewayCall records one inventory API call.
func (m *Metrics) ObserveGatewayCall(op, status string, d time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"op": op, "status": status}
	m.gatewayRequests.With(labels).Inc()
	m.gatewayDuration.With(labels).Observe(d.Seconds())
}

// ObserveIntent counts a dispatched view intent. A nil err is "ok".
func (m *Metrics) ObserveIntent(intent string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.viewIntents.WithLabelValues(intent, outcome).Inc()
}

// SessionOpened increments the live session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

// SessionClosed decrements the live session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
