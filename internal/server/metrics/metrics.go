package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the domain counters.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailure  = "failure"
	OutcomeIgnored  = "ignored"
	OutcomeRejected = "rejected"
)

// Metrics exposes Prometheus collectors for both services.
type Metrics struct {
	service string

	gatherer prometheus.Gatherer

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	relayUpdates  *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// New registers the collectors against registerer and serves them from
// gatherer. When registerer is nil the default Prometheus registry is used for
// both and the collectors are built once.
func New(service string, registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = build(service, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
		})
		return defaultMetrics
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return build(service, registerer, gatherer)
}

func build(service string, registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		service:  service,
		gatherer: gatherer,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests handled, by route and status.",
		}, []string{"service", "method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		relayUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_relay_updates_total",
			Help: "Inventory-set relay calls, by outcome.",
		}, []string{"outcome"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "square_webhook_events_total",
			Help: "Webhook deliveries, by event type and outcome.",
		}, []string{"event_type", "outcome"}),
	}

	registerer.MustRegister(m.requests, m.duration, m.relayUpdates, m.webhookEvents)
	return m
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(m.service, method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(m.service, method, route).Observe(elapsed.Seconds())
}

// RelayUpdate counts one relay call.
func (m *Metrics) RelayUpdate(outcome string) {
	if m == nil {
		return
	}
	m.relayUpdates.WithLabelValues(outcome).Inc()
}

// WebhookEvent counts one webhook delivery. Signature rejections use an empty event type.
func (m *Metrics) WebhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
