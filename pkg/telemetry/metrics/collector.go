package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Malikabakr/bank-project/pkg/config"
)

// Collector owns every Prometheus metric the service records: HTTP traffic,
// batch processing, and retention sweeping. All Record* methods are nil-safe
// no-ops when metrics are disabled, so callers never guard their calls.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	httpMetrics  *HTTPMetrics
	batchMetrics *BatchMetrics
	sweepMetrics *SweepMetrics
}

// NewCollector creates a metrics collector registered against the given
// registry. A nil registry gets a fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "cardpress"
	}

	return &Collector{
		config:       cfg,
		registry:     registry,
		httpMetrics:  NewHTTPMetrics(cfg, registry),
		batchMetrics: NewBatchMetrics(cfg, registry),
		sweepMetrics: NewSweepMetrics(cfg, registry),
	}
}

// enabled reports whether metric recording is on.
func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordHTTPRequest records one completed HTTP request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.httpMetrics.Record(method, route, status, duration)
}

// RecordUpload records an accepted or rejected spreadsheet upload.
func (c *Collector) RecordUpload(cardKind, status string) {
	if !c.enabled() {
		return
	}
	c.batchMetrics.RecordUpload(cardKind, status)
}

// RecordRowRendered records one rendered row and its duration.
func (c *Collector) RecordRowRendered(cardKind string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.batchMetrics.RecordRow(cardKind, "rendered", duration)
}

// RecordRowSkipped records one row that failed to render and was skipped.
func (c *Collector) RecordRowSkipped(cardKind string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.batchMetrics.RecordRow(cardKind, "skipped", duration)
}

// SetActiveJobs sets the number of batch jobs currently tracked.
func (c *Collector) SetActiveJobs(n int) {
	if !c.enabled() {
		return
	}
	c.batchMetrics.SetActiveJobs(n)
}

// RecordSweep records the outcome of one retention sweep cycle.
func (c *Collector) RecordSweep(deleted, failed int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.sweepMetrics.Record(deleted, failed, duration)
}
