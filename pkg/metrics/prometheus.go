package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector records stage metrics into its own registry.
type PrometheusCollector struct {
	stagesTotal   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
	registry      *prometheus.Registry
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates a collector backed by a fresh registry.
func NewPrometheusCollector() *PrometheusCollector {
	registry := prometheus.NewRegistry()

	stagesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainkit_stage_runs_total",
			Help: "Total number of chain stage runs by chain, stage and status",
		},
		[]string{"chain", "stage", "status"},
	)

	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chainkit_stage_duration_seconds",
			Help:    "Duration of chain stage runs",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"chain", "stage"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainkit_stage_errors_total",
			Help: "Total number of chain stage errors by type",
		},
		[]string{"chain", "stage", "error_type"},
	)

	registry.MustRegister(stagesTotal, stageDuration, errorsTotal)

	return &PrometheusCollector{
		stagesTotal:   stagesTotal,
		stageDuration: stageDuration,
		errorsTotal:   errorsTotal,
		registry:      registry,
	}
}

// RecordStage counts a stage run and observes its duration.
func (m *PrometheusCollector) RecordStage(_ context.Context, chain, stage, status string, d time.Duration) {
	m.stagesTotal.WithLabelValues(chain, stage, status).Inc()
	m.stageDuration.WithLabelValues(chain, stage).Observe(d.Seconds())
}

// RecordError counts a stage error.
func (m *PrometheusCollector) RecordError(_ context.Context, chain, stage, errorType string) {
	m.errorsTotal.WithLabelValues(chain, stage, errorType).Inc()
}

// Registry returns the Prometheus registry for HTTP exposure.
func (m *PrometheusCollector) Registry() *prometheus.Registry {
	return m.registry
}
