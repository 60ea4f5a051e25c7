// Package logging configures the process-wide structured logger and masks
// cardholder data in log output.
//
// The service handles names, phone numbers, and card digits from uploaded
// spreadsheets. The RedactingHandler sits between slog and the output writer
// so those values never reach the logs in the clear, no matter which
// component logged them.
//
// Usage:
//
//	err := logging.Setup(logging.Config{
//		Level:     cfg.Telemetry.Logging.Level,
//		Format:    cfg.Telemetry.Logging.Format,
//		RedactPII: cfg.Telemetry.Logging.RedactPII,
//	})
package logging
