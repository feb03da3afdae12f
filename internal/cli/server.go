// filepath: internal/cli/server.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamstore/internal/api/handlers"
	"streamstore/internal/audit"
	"streamstore/internal/httpserver"
	"streamstore/internal/logging"
	"streamstore/internal/metrics"
	"streamstore/internal/pipeline"
	"streamstore/internal/registry"
	"streamstore/internal/repository"
	"streamstore/internal/services"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return fmt.Errorf("failed to prepare scratch directory: %w", err)
	}

	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	// --- Conditional Auto-migrate on startup ---
	if err := repo.EnsureSchemaBootstrapped(); err != nil {
		logging.Log.Errorf("Failed to bootstrap database: %v", err)
		return err
	}

	if err := repo.ValidateSchema(); err != nil {
		logging.Log.Error("---------------------------------------------------------------")
		logging.Log.Errorf("CRITICAL DATABASE ERROR: %v", err)
		logging.Log.Error("---------------------------------------------------------------")
		return err
	}

	// Pipeline telemetry
	var observer pipeline.Observer
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		obs, err := metrics.NewPrometheusObserver("streamstore", prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		observer = obs
		metricsHandler = promhttp.Handler()
	}
	reporter := pipeline.MultiReporter{pipeline.LogReporter{}}
	if cfg.Logging.TraceStatus {
		reporter = append(reporter, pipeline.NewTraceReporter(os.Stdout))
	}

	// Service Initialization
	uploadService := services.NewUploadService(storageService, registry.New(), repo, services.UploadOptions{
		QueueCapacity:  cfg.Storage.QueueCapacity,
		ReadBufferSize: cfg.ReadBufferSizeBytes,
		Reporter:       reporter,
		Observer:       observer,
	})
	historyService := services.NewHistoryService(repo)
	infoService := services.NewInfoService(Version, StartTime, cfg.Storage.QueueCapacity, storageService.ScratchDir)
	housekeepingService := services.NewHousekeepingService(storageService, uploadService,
		cfg.HousekeepingInterval, cfg.OrphanMinAge, repository.DatabaseFiles(cfg.Database.Path)...)
	loggerAuditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled)

	housekeepingService.Start()
	// No defer stop here, we stop explicitly during graceful shutdown

	h := handlers.NewHandlers(
		infoService,
		uploadService,
		historyService,
		housekeepingService,
		loggerAuditor,
		cfg,
	)

	r := httpserver.SetupRouter(h, metricsHandler)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logging.Log.Infof("Server starting on %s (scratch dir: %s, queue capacity: %d, read buffer: %s)",
			serverAddr, storageService.ScratchDir, cfg.Storage.QueueCapacity, humanize.Bytes(uint64(cfg.ReadBufferSizeBytes)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		housekeepingService.Stop()
		return fmt.Errorf("server failed to start: %w", err)
	}
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	housekeepingService.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
