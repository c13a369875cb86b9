package config

import "time"

// Application constants
const (
	AppName    = "RN518 Panel"
	AppVersion = "1.0.0"

	EnvPrefix = "PANEL"

	DefaultDatasetPath = "data/indicators.csv"
	DefaultExportDir   = "data/exports"
	DefaultLogFile     = "logs/panel.log"

	// Results are cached per filter for the same duration the dashboard used
	DefaultCacheTTL  = 15 * time.Minute
	DefaultCacheSize = 256

	DefaultRateLimit = 100
	DefaultBurstSize = 50

	APIBasePath     = "/api/v1"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
