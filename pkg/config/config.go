package config

import "time"

// Config is the root configuration structure for Cardpress.
// It contains all configuration sections for the HTTP server, artifact
// storage, retention sweeping, document rendering, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and upload limits.
	Server ServerConfig `yaml:"server"`

	// Storage contains configuration for the artifact store including the
	// data directory and the metadata index backend.
	Storage StorageConfig `yaml:"storage"`

	// Retention contains configuration for the background sweeper that
	// deletes artifacts once the retention limit elapses.
	Retention RetentionConfig `yaml:"retention"`

	// Render contains configuration for the PDF renderer including font
	// paths and the per-row render timeout.
	Render RenderConfig `yaml:"render"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:5656", "0.0.0.0:5656").
	// Default: "127.0.0.1:5656"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. A zero or negative value means no timeout.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxUploadBytes is the maximum accepted size of an uploaded
	// spreadsheet. Uploads larger than this are rejected with a
	// client-visible error before any parsing happens.
	// Default: 16777216 (16 MiB)
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// SessionCookie is the name of the cookie carrying the session ID.
	// Default: "cardpress_session"
	SessionCookie string `yaml:"session_cookie"`
}

// StorageConfig contains configuration for the artifact store.
type StorageConfig struct {
	// DataDir is the directory holding uploaded and generated artifacts.
	// One file per artifact, grouped by owning session.
	// Default: "data/artifacts"
	DataDir string `yaml:"data_dir"`

	// IndexBackend selects the artifact metadata index: "sqlite" or "memory".
	// The sqlite backend keeps creation timestamps across restarts; the
	// memory backend rebuilds the index from file modification times.
	// Default: "sqlite"
	IndexBackend string `yaml:"index_backend"`

	// IndexPath is the SQLite database file for the metadata index.
	// Only used when IndexBackend is "sqlite".
	// Default: "data/artifacts.db"
	IndexPath string `yaml:"index_path"`

	// MaxArtifactBytes caps the size of a single stored artifact. Writes
	// above the cap fail with ErrStoreFull.
	// Default: 67108864 (64 MiB)
	MaxArtifactBytes int64 `yaml:"max_artifact_bytes"`
}

// RetentionConfig contains configuration for the retention sweeper.
type RetentionConfig struct {
	// Limit is the maximum time an artifact stays fetchable after creation.
	// Whatever has not been downloaded by then is deleted anyway.
	// Default: 2m
	Limit time.Duration `yaml:"limit"`

	// SweepInterval is how often the sweeper scans for expired artifacts.
	// Ignored when SweepSchedule is set.
	// Default: 1m
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// SweepSchedule is an optional cron expression that overrides
	// SweepInterval (e.g., "*/5 * * * *"). Empty means interval mode.
	// Default: ""
	SweepSchedule string `yaml:"sweep_schedule"`
}

// RenderConfig contains configuration for the PDF renderer.
type RenderConfig struct {
	// ArabicFont is the path to a TTF font with Arabic glyph coverage,
	// used for Arabic and Kurdish text runs.
	// Default: "fonts/NotoNaskhArabic-Regular.ttf"
	ArabicFont string `yaml:"arabic_font"`

	// LatinFont is the path to a TTF font used for Latin text runs.
	// Empty falls back to the built-in Times face.
	// Default: ""
	LatinFont string `yaml:"latin_font"`

	// RowTimeout bounds how long rendering a single spreadsheet row may
	// take. A timed-out row counts as a row failure.
	// Default: 30s
	RowTimeout time.Duration `yaml:"row_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// RedactPII controls whether cardholder data (phone numbers, card
	// digits, emails) is masked in log output. Default: true
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace.
	// Default: "cardpress"
	Namespace string `yaml:"namespace"`
}
