package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	WebhookEvents      *prometheus.CounterVec
	SessionTransitions *prometheus.CounterVec
	GenerationFallback prometheus.Counter
	EventErrors        *prometheus.CounterVec
	GenerationLatency  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Inbound webhook events by result.",
		}, []string{"result"}),
		SessionTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Committed session transitions by previous and next status.",
		}, []string{"from", "to"}),
		GenerationFallback: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_fallbacks_total",
			Help:      "Reply generations replaced by the fallback suggestion.",
		}),
		EventErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dependency_errors_total",
			Help:      "Events aborted by a failing dependency.",
		}, []string{"dependency"}),
		GenerationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_latency_ms",
			Help:      "Reply generation latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000},
		}),
	}
}

func (m *Metrics) WebhookEvent(result string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(result).Inc()
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	if from == "" {
		from = "none"
	}
	m.SessionTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) Fallback() {
	if m == nil {
		return
	}
	m.GenerationFallback.Inc()
}

func (m *Metrics) DependencyError(dependency string) {
	if m == nil {
		return
	}
	m.EventErrors.WithLabelValues(dependency).Inc()
}

func (m *Metrics) ObserveGenerationLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.GenerationLatency.Observe(float64(d.Milliseconds()))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
