package observability_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rrens/reply-assistant/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := observability.NewMetrics("test")

	m.WebhookEvent("ok")
	m.WebhookEvent("ok")
	m.Transition("", "awaiting_email")
	m.Fallback()
	m.DependencyError("store")
	m.ObserveGenerationLatency(300 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhookEvents.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionTransitions.WithLabelValues("none", "awaiting_email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationFallback))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventErrors.WithLabelValues("store")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.WebhookEvent("ok")
		m.Transition("a", "b")
		m.Fallback()
		m.DependencyError("store")
		m.ObserveGenerationLatency(time.Second)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics("replyassistant")
	m.WebhookEvent("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "replyassistant_webhook_events_total"))
}
