// Package telemetry provides observability for cardpress.
//
// # Components
//
//   - logging: Structured logging with cardholder-data redaction
//   - metrics: Prometheus metrics collection
//   - health: Liveness and readiness endpoints
//
// # Usage
//
//	// Install the default logger
//	err := logging.Setup(logging.Config{
//		Level:     cfg.Telemetry.Logging.Level,
//		Format:    cfg.Telemetry.Logging.Format,
//		RedactPII: cfg.Telemetry.Logging.RedactPII,
//	})
//
//	// Record metrics
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordUpload("platinum", "accepted")
//
//	// Health endpoints
//	checker := health.New(0)
//	mux.Handle("GET /health", checker.LivenessHandler())
//
// # Cardholder data
//
// Uploaded spreadsheets carry names, phone numbers, and card digits. The
// logging redactor masks those values in every log record, and no metric
// label ever carries a row value.
package telemetry
