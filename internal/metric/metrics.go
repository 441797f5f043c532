// Package metric holds the Prometheus instrumentation for query execution.
package metric

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for the query executor.
//
// A nil *Metrics is valid and records nothing, so callers that do not care
// about instrumentation can pass nil.
type Metrics struct {
	queryTotal    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	queryRows     *prometheus.HistogramVec
}

// Registry bundles a Prometheus registry with the query metrics registered
// on it.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewRegistry creates a registry with query metrics and Go runtime metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		prometheusRegistry: reg,
		Metrics:            NewMetrics(reg),
	}
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// RegisterDB exports connection pool statistics of db.
func (r *Registry) RegisterDB(db *sql.DB, name string) error {
	return r.prometheusRegistry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// NewMetrics creates query metrics and registers them with reg.
// A nil reg returns nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		queryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgraph_query_total",
				Help: "Total query operations",
			},
			[]string{"operation", "status"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kgraph_query_duration_seconds",
				Help:    "Duration of query operations",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"operation"},
		),
		queryRows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kgraph_query_rows",
				Help:    "Rows returned by query operations",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000},
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.queryTotal, m.queryDuration, m.queryRows)
	return m
}

// RecordQuery records one query operation.
func (m *Metrics) RecordQuery(operation string, duration time.Duration, rows int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.queryTotal.WithLabelValues(operation, status).Inc()
	m.queryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err == nil {
		m.queryRows.WithLabelValues(operation).Observe(float64(rows))
	}
}
