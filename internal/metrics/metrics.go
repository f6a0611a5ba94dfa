// Package metrics exposes streaming counters and latencies to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Error stages.
const (
	StageEncode   = "encode"
	StageTransmit = "transmit"
	StageFetch    = "fetch"
	StageRead     = "read"
)

// Result outcomes.
const (
	OutcomeHand    = "hand"
	OutcomeNoHand  = "no_hand"
	OutcomePending = "pending"
)

// Metrics holds the collectors of one streaming process. All methods are
// safe on a nil receiver, which records nothing.
type Metrics struct {
	ticks     prometheus.Counter
	skipped   prometheus.Counter
	errors    *prometheus.CounterVec
	results   *prometheus.CounterVec
	roundTrip prometheus.Histogram
	state     prometheus.Gauge
	clients   prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mudra_ticks_total",
			Help: "Total streaming loop ticks",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mudra_frames_skipped_total",
			Help: "Ticks skipped because the source had no frame dimensions yet",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mudra_errors_total",
			Help: "Tick errors by stage",
		}, []string{"stage"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mudra_results_total",
			Help: "Inference results by outcome",
		}, []string{"outcome"}),
		roundTrip: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mudra_round_trip_seconds",
			Help:    "Time from frame submission to result",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mudra_stream_state",
			Help: "Stream state (0=idle, 1=awaiting permission, 2=streaming, 3=stopped)",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mudra_preview_clients",
			Help: "Connected preview result feed clients",
		}),
	}

	m.registry.MustRegister(m.ticks, m.skipped, m.errors, m.results, m.roundTrip, m.state, m.clients)
	return m
}

// Tick counts one loop iteration.
func (m *Metrics) Tick() {
	if m == nil {
		return
	}
	m.ticks.Inc()
}

// Skipped counts a tick that produced no frame.
func (m *Metrics) Skipped() {
	if m == nil {
		return
	}
	m.skipped.Inc()
}

// Error counts a failure in stage.
func (m *Metrics) Error(stage string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(stage).Inc()
}

// Result counts an inference outcome.
func (m *Metrics) Result(outcome string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(outcome).Inc()
}

// ObserveRoundTrip records the latency of one submit (and poll).
func (m *Metrics) ObserveRoundTrip(d time.Duration) {
	if m == nil {
		return
	}
	m.roundTrip.Observe(d.Seconds())
}

// SetState records the numeric stream state.
func (m *Metrics) SetState(state int) {
	if m == nil {
		return
	}
	m.state.Set(float64(state))
}

// ClientConnected and ClientDisconnected track preview feed clients.
func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.clients.Inc()
}

func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.clients.Dec()
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
