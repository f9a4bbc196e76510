// Package obsmetrics exposes Prometheus counters, gauges, and histograms
// for the control loop. It replaces the source's hand-rolled text exporter
// (internal/metrics), which stubbed a `prometheus.enabled` config flag but
// never wired a real client library.
package obsmetrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
)

// Registry bundles every metric the control loop emits. A process keeps a
// single Registry, built via New and wired into each component that
// reports.
type Registry struct {
	DecisionsTotal      *prometheus.CounterVec
	ScalingEventsTotal  *prometheus.CounterVec
	ScalingDurationMs   *prometheus.HistogramVec
	BackendCallLatency  *prometheus.HistogramVec
	CircuitBreakerState *prometheus.GaugeVec
	ActiveWorkers       prometheus.Gauge
	CollectionErrors    *prometheus.CounterVec
}

// New registers every metric against a fresh prometheus.Registry and
// returns both.
func New() (*Registry, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Registry{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autoscaler_decisions_total",
			Help: "Count of scaling decisions made, by service and action.",
		}, []string{"service_id", "action"}),

		ScalingEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autoscaler_scaling_events_total",
			Help: "Count of scaling executions, by service, action, and outcome.",
		}, []string{"service_id", "action", "outcome"}),

		ScalingDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autoscaler_scaling_duration_ms",
			Help:    "Duration of an end-to-end scaling execution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 15000, 60000},
		}, []string{"service_id", "action"}),

		BackendCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autoscaler_backend_call_latency_ms",
			Help:    "Latency of individual backend driver calls in milliseconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "operation"}),

		CircuitBreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "autoscaler_circuit_breaker_state",
			Help: "Circuit breaker state: 0=closed, 1=open, 2=half-open.",
		}, []string{"name"}),

		ActiveWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "autoscaler_active_workers",
			Help: "Number of running per-service control loop workers.",
		}),

		CollectionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autoscaler_collection_errors_total",
			Help: "Count of failed metric collection attempts, by service.",
		}, []string{"service_id"}),
	}

	return r, reg
}

// Handler returns the HTTP handler serving /metrics in the Prometheus
// text exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// StartServer launches a dedicated metrics listener, matching the source's
// StartServer(port) shape.
func StartServer(port int, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))

	addr := ":" + strconv.Itoa(port)
	logger.Infof("prometheus metrics server listening on %s", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Errorf("prometheus server error: %v", err)
		}
	}()
}
