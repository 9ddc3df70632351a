package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/stockpulse/internal/api"
	"github.com/andresuchdata/stockpulse/internal/api/handlers"
	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/mailer"
	"github.com/andresuchdata/stockpulse/internal/metrics"
	"github.com/andresuchdata/stockpulse/internal/repository/mongodb"
	"github.com/andresuchdata/stockpulse/internal/scheduler"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/andresuchdata/stockpulse/internal/storage"
	"github.com/andresuchdata/stockpulse/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, disconnect, err := mongodb.Connect(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := disconnect(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to disconnect from database")
		}
	}()

	// Repositories
	productRepo := mongodb.NewProductRepository(db)
	salesRepo := mongodb.NewSalesRepository(db)
	metricRepo := mongodb.NewMetricRepository(db)

	// Alert read cache (noop unless enabled)
	alertCache, err := cache.NewAlertCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Alert cache unavailable, continuing without cache")
		alertCache = cache.NewNoopAlertCache()
	}

	// Metrics engine and services
	params := metrics.ParamsFromConfig(cfg.Metrics)
	engine := metrics.NewEngine(
		productRepo,
		salesRepo,
		metricRepo,
		alertCache,
		time.Duration(cfg.Metrics.RecomputeTimeout)*time.Second,
	)
	alertService := service.NewAlertService(productRepo, metricRepo, alertCache, cfg.Metrics.LowStockThreshold)

	var sender mailer.Sender
	if cfg.Mail.Host != "" {
		sender, err = mailer.NewSMTPSender(cfg.Mail)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Mail sender unavailable, report delivery disabled")
		}
	}

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinioStorage(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Report archive storage unavailable")
		}
	}

	reportService := service.NewReportService(engine, params, productRepo, metricRepo, sender, archive, cfg.Report.Recipient)

	// Weekly report schedule
	sched := scheduler.New()
	if cfg.Report.Enabled {
		if err := sched.Add(cfg.Report.Schedule, "weekly-inventory-report", reportService.RunWeekly); err != nil {
			logger.Log.Fatal().Err(err).Str("schedule", cfg.Report.Schedule).Msg("Invalid report schedule")
		}
		sched.Start()
		logger.Log.Info().Str("schedule", cfg.Report.Schedule).Msg("Weekly report job scheduled")
	}

	// Initialize HTTP server
	inventoryHandler := handlers.NewInventoryHandler(engine, params, alertService, reportService)
	router := api.NewRouter(inventoryHandler, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
