package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Malikabakr/bank-project/pkg/config"
)

// BatchMetrics tracks spreadsheet processing.
//
// Metrics:
//   - cardpress_batch_uploads_total: uploads by card kind and status
//   - cardpress_batch_rows_total: rows by card kind and outcome
//   - cardpress_batch_row_duration_seconds: per-row render duration
//   - cardpress_batch_jobs_active: currently tracked jobs
type BatchMetrics struct {
	uploadsTotal *prometheus.CounterVec
	rowsTotal    *prometheus.CounterVec
	rowDuration  *prometheus.HistogramVec
	jobsActive   prometheus.Gauge
}

// NewBatchMetrics creates and registers batch metrics with the registry.
func NewBatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *BatchMetrics {
	bm := &BatchMetrics{
		uploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "batch",
				Name:      "uploads_total",
				Help:      "Total number of spreadsheet uploads by outcome",
			},
			[]string{"card_kind", "status"},
		),

		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "batch",
				Name:      "rows_total",
				Help:      "Total number of spreadsheet rows processed by outcome",
			},
			[]string{"card_kind", "outcome"},
		),

		rowDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "batch",
				Name:      "row_duration_seconds",
				Help:      "Duration of rendering a single row in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"card_kind"},
		),

		jobsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "batch",
				Name:      "jobs_active",
				Help:      "Number of batch jobs currently tracked",
			},
		),
	}

	registry.MustRegister(bm.uploadsTotal, bm.rowsTotal, bm.rowDuration, bm.jobsActive)

	return bm
}

// RecordUpload records one upload outcome.
func (bm *BatchMetrics) RecordUpload(cardKind, status string) {
	bm.uploadsTotal.WithLabelValues(cardKind, status).Inc()
}

// RecordRow records one processed row.
func (bm *BatchMetrics) RecordRow(cardKind, outcome string, duration time.Duration) {
	bm.rowsTotal.WithLabelValues(cardKind, outcome).Inc()
	bm.rowDuration.WithLabelValues(cardKind).Observe(duration.Seconds())
}

// SetActiveJobs sets the tracked job gauge.
func (bm *BatchMetrics) SetActiveJobs(n int) {
	bm.jobsActive.Set(float64(n))
}
