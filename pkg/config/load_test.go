package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9000"
  max_upload_bytes: 1048576
storage:
  data_dir: "/tmp/cardpress-test"
retention:
  limit: 5m
  sweep_interval: 30s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, "0.0.0.0:9000")
	}
	if cfg.Server.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes = %d, want 1048576", cfg.Server.MaxUploadBytes)
	}
	if cfg.Retention.Limit != 5*time.Minute {
		t.Errorf("Retention.Limit = %v, want 5m", cfg.Retention.Limit)
	}
	if cfg.Retention.SweepInterval != 30*time.Second {
		t.Errorf("Retention.SweepInterval = %v, want 30s", cfg.Retention.SweepInterval)
	}

	// Unset fields take defaults.
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want default %v", cfg.Server.ReadTimeout, DefaultReadTimeout)
	}
	if cfg.Storage.IndexBackend != DefaultIndexBackend {
		t.Errorf("IndexBackend = %q, want default %q", cfg.Storage.IndexBackend, DefaultIndexBackend)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadConfig() expected error for missing file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected error for invalid YAML, got nil")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:5656"
retention:
  limit: 2m
`)

	t.Setenv("CARDPRESS_SERVER_LISTEN_ADDRESS", "0.0.0.0:8080")
	t.Setenv("CARDPRESS_RETENTION_LIMIT_SECONDS", "300")
	t.Setenv("CARDPRESS_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("ListenAddress = %q, want env override %q", cfg.Server.ListenAddress, "0.0.0.0:8080")
	}
	if cfg.Retention.Limit != 5*time.Minute {
		t.Errorf("Retention.Limit = %v, want 5m from CARDPRESS_RETENTION_LIMIT_SECONDS", cfg.Retention.Limit)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "debug")
	}
}

func TestLoadConfigWithEnvOverrides_MissingFile(t *testing.T) {
	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v, want defaults for missing file", err)
	}

	if cfg.Retention.Limit != DefaultRetentionLimit {
		t.Errorf("Retention.Limit = %v, want default %v", cfg.Retention.Limit, DefaultRetentionLimit)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want default %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
}
