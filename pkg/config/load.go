package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CARDPRESS_SECTION_FIELD (e.g., CARDPRESS_SERVER_LISTEN_ADDRESS)
// and always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
//
// A missing configuration file is not an error: defaults plus environment
// overrides are used instead, matching how the service runs in containers.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = NewDefault()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format CARDPRESS_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("CARDPRESS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("CARDPRESS_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("CARDPRESS_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("CARDPRESS_SERVER_MAX_UPLOAD_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxUploadBytes = i
		}
	}

	// Storage overrides
	if val := os.Getenv("CARDPRESS_STORAGE_DATA_DIR"); val != "" {
		cfg.Storage.DataDir = val
	}
	if val := os.Getenv("CARDPRESS_STORAGE_INDEX_BACKEND"); val != "" {
		cfg.Storage.IndexBackend = val
	}
	if val := os.Getenv("CARDPRESS_STORAGE_INDEX_PATH"); val != "" {
		cfg.Storage.IndexPath = val
	}

	// Retention overrides. Plain-seconds variants are recognized alongside
	// the Go duration forms for container deployments.
	if val := os.Getenv("CARDPRESS_RETENTION_LIMIT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Retention.Limit = d
		}
	}
	if val := os.Getenv("CARDPRESS_RETENTION_LIMIT_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			cfg.Retention.Limit = time.Duration(i) * time.Second
		}
	}
	if val := os.Getenv("CARDPRESS_RETENTION_SWEEP_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Retention.SweepInterval = d
		}
	}
	if val := os.Getenv("CARDPRESS_RETENTION_SWEEP_INTERVAL_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			cfg.Retention.SweepInterval = time.Duration(i) * time.Second
		}
	}
	if val := os.Getenv("CARDPRESS_RETENTION_SWEEP_SCHEDULE"); val != "" {
		cfg.Retention.SweepSchedule = val
	}

	// Render overrides
	if val := os.Getenv("CARDPRESS_RENDER_ARABIC_FONT"); val != "" {
		cfg.Render.ArabicFont = val
	}
	if val := os.Getenv("CARDPRESS_RENDER_LATIN_FONT"); val != "" {
		cfg.Render.LatinFont = val
	}
	if val := os.Getenv("CARDPRESS_RENDER_ROW_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Render.RowTimeout = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("CARDPRESS_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CARDPRESS_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CARDPRESS_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
