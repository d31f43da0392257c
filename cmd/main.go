package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/matslab/scpredict/internal/adapters/history"
	"github.com/matslab/scpredict/internal/adapters/http/api"
	"github.com/matslab/scpredict/internal/adapters/http/docs"
	"github.com/matslab/scpredict/internal/adapters/predictor"
	"github.com/matslab/scpredict/internal/app"
	"github.com/matslab/scpredict/internal/config"
	"github.com/matslab/scpredict/pkg/logger"
	"github.com/matslab/scpredict/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 60 * time.Second // sweeps call the model service N times
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	probeTimeout          = 10 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics;
	// the custom system metrics below cover what we need.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// The model service is a hard dependency: probe it once at startup and
	// refuse to run without it.
	client := predictor.NewRESTClient(
		cfg.PredictorEndpoint,
		predictor.WithTimeout(time.Duration(cfg.PredictorTimeoutMS)*time.Millisecond),
	)
	probeCtx, cancelProbe := context.WithTimeout(ctx, probeTimeout)
	if err := client.Probe(probeCtx); err != nil {
		cancelProbe()
		log.Error(ctx, "model service probe failed", logger.String("endpoint", cfg.PredictorEndpoint), logger.Error(err))
		os.Exit(1)
	}
	cancelProbe()
	log.Info(ctx, "model service reachable", logger.String("endpoint", cfg.PredictorEndpoint))

	// Pass history: Postgres when configured, in-memory otherwise.
	var recorder history.Recorder
	if cfg.HistoryDSN != "" {
		pg, err := history.NewPostgresRecorder(ctx, cfg.HistoryDSN)
		if err != nil {
			log.Error(ctx, "history store unavailable", logger.Error(err))
			os.Exit(1)
		}
		recorder = pg
		log.Info(ctx, "using postgres history recorder")
	} else {
		recorder = history.NewMemoryRecorder(history.WithMemoryLimit(cfg.HistoryLimit))
		log.Info(ctx, "using in-memory history recorder", logger.Int("limit", cfg.HistoryLimit))
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(log),
		app.WithPredictor(client),
		app.WithRecorder(recorder),
		app.WithSweepRange(cfg.SweepStartYears, cfg.SweepEndYears, cfg.SweepStepYears),
		app.WithMilestones(cfg.MilestoneYears),
		app.WithMaxSamples(cfg.MaxSweepSamples),
		app.WithEnvironmentBounds(app.EnvironmentBounds{
			Strict:         cfg.StrictEnvironmentBounds,
			ChlorideMin:    cfg.ChlorideMin,
			ChlorideMax:    cfg.ChlorideMax,
			TemperatureMin: cfg.TemperatureMin,
			TemperatureMax: cfg.TemperatureMax,
		}),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	docs.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
