package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/mailer"
	"github.com/andresuchdata/stockpulse/internal/metrics"
	"github.com/andresuchdata/stockpulse/internal/repository/mongodb"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/andresuchdata/stockpulse/internal/storage"
	"github.com/andresuchdata/stockpulse/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "metrics",
		Usage: "Run inventory metric jobs without the API server",
		Commands: []*cli.Command{
			{
				Name:  "recompute",
				Usage: "Recompute the inventory metrics snapshot once",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "lookback-weeks", Usage: "Sales lookback window in weeks"},
					&cli.IntFlag{Name: "lead-time-days", Usage: "Supplier lead time in days"},
					&cli.Float64Flag{Name: "safety-factor", Usage: "Safety multiplier applied to demand"},
					&cli.Float64Flag{Name: "slow-percentile", Usage: "Slow velocity percentile in [0,1]"},
					&cli.Float64Flag{Name: "fast-percentile", Usage: "Fast velocity percentile in [0,1]"},
				},
				Action: runRecompute,
			},
			{
				Name:   "send-report",
				Usage:  "Recompute and deliver the weekly inventory report now",
				Action: runSendReport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func buildEngine(cfg *config.Config) (*metrics.Engine, metrics.Params, *service.ReportService, func(), error) {
	db, disconnect, err := mongodb.Connect(&cfg.Database)
	if err != nil {
		return nil, metrics.Params{}, nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = disconnect(ctx)
	}

	productRepo := mongodb.NewProductRepository(db)
	salesRepo := mongodb.NewSalesRepository(db)
	metricRepo := mongodb.NewMetricRepository(db)

	alertCache, err := cache.NewAlertCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("alert cache unavailable, continuing without cache")
		alertCache = cache.NewNoopAlertCache()
	}

	params := metrics.ParamsFromConfig(cfg.Metrics)
	engine := metrics.NewEngine(
		productRepo,
		salesRepo,
		metricRepo,
		alertCache,
		time.Duration(cfg.Metrics.RecomputeTimeout)*time.Second,
	)

	var sender mailer.Sender
	if cfg.Mail.Host != "" {
		if sender, err = mailer.NewSMTPSender(cfg.Mail); err != nil {
			logger.Log.Warn().Err(err).Msg("mail sender unavailable, report delivery disabled")
		}
	}
	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		if archive, err = storage.NewMinioStorage(cfg.Storage); err != nil {
			logger.Log.Warn().Err(err).Msg("report archive storage unavailable")
		}
	}
	reports := service.NewReportService(engine, params, productRepo, metricRepo, sender, archive, cfg.Report.Recipient)

	return engine, params, reports, cleanup, nil
}

func runRecompute(c *cli.Context) error {
	cfg := config.Load()
	engine, params, _, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if v := c.Int("lookback-weeks"); v > 0 {
		params.LookbackWeeks = v
	}
	if v := c.Int("lead-time-days"); v > 0 {
		params.LeadTimeDays = v
	}
	if v := c.Float64("safety-factor"); v > 0 {
		params.SafetyFactor = v
	}
	if c.IsSet("slow-percentile") {
		params.SlowPercentile = c.Float64("slow-percentile")
	}
	if c.IsSet("fast-percentile") {
		params.FastPercentile = c.Float64("fast-percentile")
	}

	start := time.Now()
	result, err := engine.Recompute(c.Context, params)
	if err != nil {
		return fmt.Errorf("recompute failed: %w", err)
	}

	logger.Log.Info().
		Int("products", result.Products).
		Int("entries", result.Entries).
		Dur("took", time.Since(start)).
		Msg("recompute completed")
	return nil
}

func runSendReport(c *cli.Context) error {
	cfg := config.Load()
	_, _, reports, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return reports.RunWeekly(c.Context)
}
