package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alanceloth/datagen/internal/api"
	"github.com/alanceloth/datagen/internal/cache"
	"github.com/alanceloth/datagen/internal/config"
	"github.com/alanceloth/datagen/internal/metrics"
	"github.com/alanceloth/datagen/internal/service"
	"github.com/alanceloth/datagen/internal/storage"
	"github.com/alanceloth/datagen/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.JSON)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize object store
	store, err := storage.Open(context.Background(), storage.ConfigFrom(cfg.Storage))
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open object store")
	}
	gateway := storage.NewGateway(store, storage.WithGatewayMetrics(m))

	history, err := cache.NewRunHistory(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Run history disabled")
		history = cache.NewNoopRunHistory()
	}

	// Initialize services
	datasetService := service.NewDatasetService(
		service.GeneratorFactory(cfg.Generator),
		cfg.Generator.OutputDir,
		service.WithGateway(gateway, cfg.Storage.Bucket),
		service.WithHistory(history),
		service.WithMetrics(m),
	)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		DatasetService: datasetService,
		Gateway:        gateway,
		Bucket:         cfg.Storage.Bucket,
		Gatherer:       reg,
	}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("storage_driver", store.Driver()).
			Str("bucket", cfg.Storage.Bucket).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
