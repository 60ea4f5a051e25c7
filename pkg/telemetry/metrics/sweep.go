package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Malikabakr/bank-project/pkg/config"
)

// SweepMetrics tracks the retention sweeper.
//
// Metrics:
//   - cardpress_sweep_artifacts_deleted_total: artifacts deleted by sweeps
//   - cardpress_sweep_failures_total: artifact deletions that failed
//   - cardpress_sweep_duration_seconds: sweep cycle duration
type SweepMetrics struct {
	deletedTotal  prometheus.Counter
	failuresTotal prometheus.Counter
	sweepDuration prometheus.Histogram
}

// NewSweepMetrics creates and registers sweep metrics with the registry.
func NewSweepMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SweepMetrics {
	sm := &SweepMetrics{
		deletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "sweep",
				Name:      "artifacts_deleted_total",
				Help:      "Total number of expired artifacts deleted",
			},
		),

		failuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "sweep",
				Name:      "failures_total",
				Help:      "Total number of artifact deletions that failed",
			},
		),

		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "sweep",
				Name:      "duration_seconds",
				Help:      "Duration of retention sweep cycles in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
		),
	}

	registry.MustRegister(sm.deletedTotal, sm.failuresTotal, sm.sweepDuration)

	return sm
}

// Record records one sweep cycle.
func (sm *SweepMetrics) Record(deleted, failed int, duration time.Duration) {
	sm.deletedTotal.Add(float64(deleted))
	sm.failuresTotal.Add(float64(failed))
	sm.sweepDuration.Observe(duration.Seconds())
}
