// Package config loads the panel configuration.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//  1. Default values (Default)
//  2. A configuration file, YAML (.yaml, .yml) or TOML (.toml)
//  3. Environment variables prefixed with PANEL_
//
// # Environment Variables
//
// Nested sections map to underscore separated names:
//
//	PANEL_SERVER_PORT=8080
//	PANEL_DATA_DATASET_PATH=data/indicators.csv
//	PANEL_DATA_RELOAD_SCHEDULE="@every 30m"
//	PANEL_LOGGING_LEVEL=debug
//
// # Validation
//
// Load validates struct tags with go-playground/validator and then checks the
// cross-field rules (timeouts, cron schedule, file formats) in validate.
package config
