package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// valid and records nothing, so services can run without a registry in tests.
type Metrics struct {
	WalletConnects    *prometheus.CounterVec
	WalletEvents      *prometheus.CounterVec
	LinkAttempts      *prometheus.CounterVec
	Transitions       *prometheus.CounterVec
	RemoteCallLatency *prometheus.HistogramVec
	ConsoleLatency    *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg. A nil reg leaves them
// unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		WalletConnects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landchain_wallet_connects_total",
			Help: "Wallet connect attempts by outcome code",
		}, []string{"outcome"}),
		WalletEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landchain_wallet_provider_events_total",
			Help: "Provider-pushed wallet events by type",
		}, []string{"event"}),
		LinkAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landchain_wallet_link_attempts_total",
			Help: "Wallet linkage attempts by outcome code",
		}, []string{"outcome"}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landchain_land_transitions_total",
			Help: "Land workflow transitions by action and outcome code",
		}, []string{"action", "outcome"}),
		RemoteCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landchain_backend_call_duration_seconds",
			Help:    "Latency of registry backend calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		ConsoleLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landchain_console_request_duration_seconds",
			Help:    "Latency of console API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// IncrementConnect counts a connect attempt. outcome is "ok" or an error code.
func (m *Metrics) IncrementConnect(outcome string) {
	if m == nil {
		return
	}
	m.WalletConnects.WithLabelValues(outcome).Inc()
}

// IncrementWalletEvent counts a provider-pushed event.
func (m *Metrics) IncrementWalletEvent(event string) {
	if m == nil {
		return
	}
	m.WalletEvents.WithLabelValues(event).Inc()
}

// IncrementLinkAttempt counts a linkage attempt.
func (m *Metrics) IncrementLinkAttempt(outcome string) {
	if m == nil {
		return
	}
	m.LinkAttempts.WithLabelValues(outcome).Inc()
}

// IncrementTransition counts a workflow transition attempt.
func (m *Metrics) IncrementTransition(action, outcome string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(action, outcome).Inc()
}

// ObserveRemoteCall records a backend call latency.
func (m *Metrics) ObserveRemoteCall(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RemoteCallLatency.WithLabelValues(operation, status).Observe(d.Seconds())
}

// ObserveConsoleRequest records a console request latency.
func (m *Metrics) ObserveConsoleRequest(method, route string, d time.Duration) {
	if m == nil {
		return
	}
	m.ConsoleLatency.WithLabelValues(method, route).Observe(d.Seconds())
}
