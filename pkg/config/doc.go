// Package config provides configuration loading, validation, and hot-reload
// for Cardpress.
//
// Configuration is read from a YAML file, filled in with defaults, overridden
// by CARDPRESS_* environment variables, and validated before use. A global
// singleton holds the active configuration; a file watcher can reload it at
// runtime without restarting the service.
//
// # Loading
//
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// # Environment overrides
//
// Environment variables follow the CARDPRESS_SECTION_FIELD convention:
//
//	CARDPRESS_SERVER_LISTEN_ADDRESS=0.0.0.0:5656
//	CARDPRESS_RETENTION_LIMIT=2m
//	CARDPRESS_RETENTION_LIMIT_SECONDS=120
//	CARDPRESS_STORAGE_DATA_DIR=/var/lib/cardpress/artifacts
//
// The *_SECONDS forms exist for deployments that configure the retention
// window as a plain integer.
package config
