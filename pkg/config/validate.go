package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateRender(&cfg.Render)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address must not be empty",
		})
	} else if !strings.Contains(cfg.ListenAddress, ":") {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid address %q: expected host:port", cfg.ListenAddress),
		})
	}

	if cfg.MaxUploadBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_upload_bytes",
			Message: "must not be negative",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.IndexBackend {
	case "sqlite", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "storage.index_backend",
			Message: fmt.Sprintf("unsupported backend %q: expected sqlite or memory", cfg.IndexBackend),
		})
	}

	if cfg.IndexBackend == "sqlite" && cfg.IndexPath == "" {
		errs = append(errs, FieldError{
			Field:   "storage.index_path",
			Message: "required when index_backend is sqlite",
		})
	}

	if cfg.DataDir == "" {
		errs = append(errs, FieldError{
			Field:   "storage.data_dir",
			Message: "data directory must not be empty",
		})
	}

	if cfg.MaxArtifactBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.max_artifact_bytes",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	if cfg.Limit <= 0 {
		errs = append(errs, FieldError{
			Field:   "retention.limit",
			Message: "retention limit must be positive",
		})
	}
	if cfg.SweepInterval <= 0 && cfg.SweepSchedule == "" {
		errs = append(errs, FieldError{
			Field:   "retention.sweep_interval",
			Message: "sweep interval must be positive when no sweep schedule is set",
		})
	}
	if cfg.SweepSchedule != "" {
		if _, err := cron.ParseStandard(cfg.SweepSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "retention.sweep_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.SweepSchedule, err),
			})
		}
	}

	return errs
}

func validateRender(cfg *RenderConfig) []FieldError {
	var errs []FieldError

	if cfg.RowTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "render.row_timeout",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unsupported level %q: expected debug, info, warn, or error", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unsupported format %q: expected json or text", cfg.Logging.Format),
		})
	}

	return errs
}
