package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:5656"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxUploadBytes  = int64(16 * 1024 * 1024) // 16 MiB
	DefaultSessionCookie   = "cardpress_session"

	// Storage defaults
	DefaultDataDir          = "data/artifacts"
	DefaultIndexBackend     = "sqlite"
	DefaultIndexPath        = "data/artifacts.db"
	DefaultMaxArtifactBytes = int64(64 * 1024 * 1024) // 64 MiB

	// Retention defaults
	DefaultRetentionLimit = 2 * time.Minute
	DefaultSweepInterval  = 1 * time.Minute

	// Render defaults
	DefaultArabicFont = "fonts/NotoNaskhArabic-Regular.ttf"
	DefaultRowTimeout = 30 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "cardpress"
)

// ApplyDefaults fills in default values for any configuration fields that
// were not set. It is called automatically by LoadConfig after parsing.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Server.SessionCookie == "" {
		cfg.Server.SessionCookie = DefaultSessionCookie
	}

	// Storage defaults
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = DefaultDataDir
	}
	if cfg.Storage.IndexBackend == "" {
		cfg.Storage.IndexBackend = DefaultIndexBackend
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = DefaultIndexPath
	}
	if cfg.Storage.MaxArtifactBytes == 0 {
		cfg.Storage.MaxArtifactBytes = DefaultMaxArtifactBytes
	}

	// Retention defaults
	if cfg.Retention.Limit == 0 {
		cfg.Retention.Limit = DefaultRetentionLimit
	}
	if cfg.Retention.SweepInterval == 0 {
		cfg.Retention.SweepInterval = DefaultSweepInterval
	}

	// Render defaults
	if cfg.Render.ArabicFont == "" {
		cfg.Render.ArabicFont = DefaultArabicFont
	}
	if cfg.Render.RowTimeout == 0 {
		cfg.Render.RowTimeout = DefaultRowTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// NewDefault returns a configuration populated entirely with defaults.
// Useful for tests and for running without a configuration file.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Logging.RedactPII = true
	return cfg
}
