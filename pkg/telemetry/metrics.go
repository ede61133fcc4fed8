package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the codec and the status cache.
type Metrics struct {
	config MetricsConfig

	// Codec metrics
	keysBuilt     *prometheus.CounterVec
	keysParsed    *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
	digestFilters prometheus.Counter

	// Status cache metrics
	historyRecords  *prometheus.CounterVec
	storeOpDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
// When metrics are disabled every recording method is a no-op.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		keysBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "keys_built_total",
				Help:      "Identifier strings built, by kind (operation, notify, transition, magic).",
			},
			[]string{"kind"},
		),
		keysParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "keys_parsed_total",
				Help:      "Identifier strings parsed successfully, by kind.",
			},
			[]string{"kind"},
		),
		parseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_failures_total",
				Help:      "Identifier parse failures, by kind.",
			},
			[]string{"kind"},
		),
		digestFilters: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "digest_filters_total",
				Help:      "Parameter sets filtered for digest computation.",
			},
		),
		historyRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_records_total",
				Help:      "Operation results recorded in the status cache, by outcome.",
			},
			[]string{"outcome"},
		),
		storeOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_op_duration_seconds",
				Help:      "Status cache operation latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}

	collectors := []prometheus.Collector{
		m.keysBuilt,
		m.keysParsed,
		m.parseFailures,
		m.digestFilters,
		m.historyRecords,
		m.storeOpDuration,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// KeyBuilt records a successfully built identifier of the given kind.
func (m *Metrics) KeyBuilt(kind string) {
	if m.keysBuilt != nil {
		m.keysBuilt.WithLabelValues(kind).Inc()
	}
}

// KeyParsed records a successfully parsed identifier of the given kind.
func (m *Metrics) KeyParsed(kind string) {
	if m.keysParsed != nil {
		m.keysParsed.WithLabelValues(kind).Inc()
	}
}

// ParseFailed records an identifier parse failure of the given kind.
func (m *Metrics) ParseFailed(kind string) {
	if m.parseFailures != nil {
		m.parseFailures.WithLabelValues(kind).Inc()
	}
}

// DigestFiltered records a parameter set filtered for digest computation.
func (m *Metrics) DigestFiltered() {
	if m.digestFilters != nil {
		m.digestFilters.Inc()
	}
}

// HistoryRecorded records an operation result written to the status cache.
func (m *Metrics) HistoryRecorded(failed bool) {
	if m.historyRecords == nil {
		return
	}
	outcome := "success"
	if failed {
		outcome = "failure"
	}
	m.historyRecords.WithLabelValues(outcome).Inc()
}

// ObserveStoreOp records the latency of a status cache operation.
func (m *Metrics) ObserveStoreOp(op string, d time.Duration) {
	if m.storeOpDuration != nil {
		m.storeOpDuration.WithLabelValues(op).Observe(d.Seconds())
	}
}

// Handler returns the HTTP handler serving the metrics endpoint, or nil
// when metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing the metrics endpoint. It blocks
// until the server stops and is a no-op when metrics are disabled.
func (m *Metrics) Serve() error {
	if m.registry == nil {
		return nil
	}
	mux := http.NewServeMux()
	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}
	mux.Handle(path, m.Handler())
	return http.ListenAndServe(m.config.ListenAddress, mux)
}
