package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndExposition(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New("relay", registry, registry)

	m.ObserveRequest(http.MethodPost, "/inventory/add", http.StatusOK, 20*time.Millisecond)
	m.RelayUpdate(OutcomeSuccess)
	m.RelayUpdate(OutcomeNotFound)
	m.WebhookEvent("", OutcomeRejected)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("relay", http.MethodPost, "/inventory/add", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayUpdates.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookEvents.WithLabelValues("unknown", OutcomeRejected)))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory_relay_updates_total")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)
	m.RelayUpdate(OutcomeFailure)
	m.WebhookEvent("x", OutcomeIgnored)
	assert.NotNil(t, m.Handler())
}

func TestWrappedRegistererServesFromGatherer(t *testing.T) {
	registry := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"env": "test"}, registry)
	m := New("webhook", wrapped, registry)

	m.WebhookEvent("inventory.count.updated", OutcomeSuccess)

	count, err := testutil.GatherAndCount(registry, "square_webhook_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `env="test"`)
}
