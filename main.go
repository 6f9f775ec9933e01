package main

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-catalog/internal/assettypes"
	"asset-catalog/internal/catalog"
	"asset-catalog/internal/filesystem"
	"asset-catalog/internal/handlers"
	"asset-catalog/internal/logging"
	"asset-catalog/internal/memory"
	"asset-catalog/internal/middleware"
	"asset-catalog/internal/pipeline"
	"asset-catalog/internal/scanner"
	"asset-catalog/internal/startup"
	"asset-catalog/internal/watcher"
	"asset-catalog/internal/workers"
)

func main() {
	startTime := time.Now()

	// Set GOMEMLIMIT from the container limit before any large allocations.
	memory.SetLimitFromEnv()

	// The asset directory comes from the command line, the environment, or
	// an interactive prompt when attached to a terminal.
	assetDir := ""
	if len(os.Args) > 1 {
		assetDir = os.Args[1]
	}
	if assetDir == "" && os.Getenv("ASSET_DIR") == "" {
		dir, err := startup.PromptForAssetDir()
		if err != nil {
			startup.LogFatal("No asset directory: %v", err)
		}
		assetDir = dir
	}

	// Load configuration
	config, err := startup.LoadConfig(assetDir)
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Label filesystem retry metrics by mount
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"assets": config.AssetDir,
		"data":   config.DataDir,
	}))

	// Initialize catalog store
	catalogStart := time.Now()
	store, err := catalog.Open(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to open catalog: %v", err)
	}
	defer store.Close()
	startup.LogCatalogInit(config.DatabasePath, time.Since(catalogStart))

	// Shared pipeline: the scanner and watcher both feed this engine.
	classifier := assettypes.NewClassifier(assettypes.DefaultClassifierConfig())
	engine := pipeline.NewEngine(pipeline.NewProcessor(classifier), pipeline.NewCoordinator(store))

	scanWorkers := config.ScanWorkers
	if scanWorkers < 1 {
		scanWorkers = workers.ScanWorkers()
	}
	runner := scanner.NewRunner(scanner.New(config.AssetDir, classifier), engine, scanWorkers)

	// Memory backpressure: pause hashing workers when the heap nears GOMEMLIMIT
	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	runner.SetMemoryMonitor(monitor)

	// Initial scan in the background (non-blocking)
	startup.LogScannerInit(scanWorkers)
	runner.TriggerScan(context.Background())

	// Live watcher
	watchWorkers := config.WatchWorkers
	if watchWorkers < 1 {
		watchWorkers = workers.WatchWorkers()
	}
	startup.LogWatcherInit(config.SettleDelay, watchWorkers)

	watcherCfg := watcher.DefaultConfig()
	watcherCfg.SettleDelay = config.SettleDelay
	watcherCfg.Workers = watchWorkers

	w, err := watcher.New(config.AssetDir, engine, watcherCfg)
	if err != nil {
		startup.LogFatal("Failed to create watcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		startup.LogFatal("Failed to start watcher: %v", err)
	}

	// HTTP API
	h := handlers.New(store, runner, config)
	router := h.NewRouter(config.MetricsEnabled)

	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, w, monitor)

	// Interactive command loop when attached to a terminal
	go commandLoop(runner)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

// commandLoop reads single-letter commands from stdin: 'r' triggers a
// rescan, 'q' quits. Reads fail immediately when stdin is closed or not
// interactive, which simply disables the loop.
func commandLoop(runner *scanner.Runner) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		switch sc.Text() {
		case "r", "R":
			if runner.IsScanning() {
				logging.Info("Scan already in progress")
				continue
			}
			logging.Info("Rescan requested")
			runner.TriggerScan(context.Background())
		case "q", "Q":
			logging.Info("Quit requested")
			p, err := os.FindProcess(os.Getpid())
			if err == nil {
				_ = p.Signal(syscall.SIGTERM)
			}
			return
		case "":
			// Bare Enter, ignore
		default:
			logging.Info("Unknown command %q ('r' rescans, 'q' quits)", sc.Text())
		}
	}
}

func handleShutdown(srv *http.Server, w *watcher.Watcher, monitor *memory.Monitor) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping watcher")
	w.Stop()
	startup.LogShutdownStepComplete("Watcher stopped")

	monitor.Stop()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
