// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// Configuration is loaded from environment variables via [LoadConfig]. The
// asset directory is positional: a command-line argument wins, then the
// ASSET_DIR environment variable, and an interactive terminal can be asked
// via [PromptForAssetDir]. The following environment variables are supported:
//
//   - ASSET_DIR: Path to the asset tree to catalog (no default; required)
//   - DATA_DIR: Path to the directory holding the catalog database (default: .)
//   - PORT: HTTP server port (default: 8080)
//   - SETTLE_DELAY: Watcher debounce window as Go duration (default: 500ms)
//   - SCAN_WORKERS: Bulk scan worker count, 0 for automatic (default: 0)
//   - WATCH_WORKERS: Watcher worker count, 0 for automatic (default: 0)
//   - METRICS_ENABLED: Expose the Prometheus endpoint (default: true)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Directory Setup
//
// The asset directory must exist and is never created. The data directory
// is created if needed and must be writable; a failure there aborts startup.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogCatalogInit]: Catalog database initialization timing
//   - [LogScannerInit]: Scanner worker configuration
//   - [LogWatcherInit]: Watcher settle delay and worker configuration
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
//
// # Example Usage
//
//	config, err := startup.LoadConfig(os.Args[1])
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//
//	// Initialize components...
//	startup.LogCatalogInit(config.DatabasePath, catalogInitDuration)
//	startup.LogScannerInit(scanWorkers)
//
//	// Start server...
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	// ... cleanup ...
//	startup.LogShutdownComplete()
package startup
