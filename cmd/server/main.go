package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/config"
	"github.com/vparedes/maricultor/internal/engine/payout"
	"github.com/vparedes/maricultor/internal/repository/mongodb"
	sheetsrepo "github.com/vparedes/maricultor/internal/repository/sheets"
	"github.com/vparedes/maricultor/internal/scheduler"
	"github.com/vparedes/maricultor/internal/server/handlers"
	"github.com/vparedes/maricultor/internal/server/router"
	harvestsvc "github.com/vparedes/maricultor/internal/service/harvest"
	monitoringsvc "github.com/vparedes/maricultor/internal/service/monitoring"
	projectionsvc "github.com/vparedes/maricultor/internal/service/projection"
	"github.com/vparedes/maricultor/pkg/clients/webhook"
	"github.com/vparedes/maricultor/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	lotRepo := mongodb.NewLotRepository(store)
	measurementRepo := mongodb.NewMeasurementRepository(store)
	reconciliationRepo := mongodb.NewReconciliationRepository(store)
	investmentRepo := mongodb.NewInvestmentRepository(store)
	distributionRepo := mongodb.NewDistributionRepository(store)
	harvestPlanRepo := mongodb.NewHarvestPlanRepository(store)
	expenseRepo := mongodb.NewExpenseRepository(store)
	notificationRepo := mongodb.NewNotificationRepository(store)

	var notifier webhook.Notifier
	if cfg.Webhook.URL != "" {
		notifier = webhook.NewClient(cfg.Webhook)
		baseLogger.Info("notification webhook enabled")
	} else {
		baseLogger.Warn("notification webhook url missing, outbound alerts disabled")
	}

	var exporter sheetsrepo.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheetsrepo.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("report export to google sheets enabled")
	}

	monitoringSvc := monitoringsvc.NewService(lotRepo, measurementRepo, reconciliationRepo, baseLogger.Named("svc.monitoring"))
	harvestSvc := harvestsvc.NewService(harvestPlanRepo, investmentRepo, distributionRepo, expenseRepo, notificationRepo, payout.NewAllocator(), notifier, baseLogger.Named("svc.harvest"))
	projectionSvc := projectionsvc.NewService(cfg.Projection.MonteCarloIterations, baseLogger.Named("svc.projection"))

	lotHandler := handlers.NewLotHandler(lotRepo, investmentRepo, expenseRepo, monitoringSvc, baseLogger.Named("handlers.lots"))
	harvestHandler := handlers.NewHarvestHandler(harvestSvc, baseLogger.Named("handlers.harvests"))
	projectionHandler := handlers.NewProjectionHandler(projectionSvc, baseLogger.Named("handlers.projections"))

	engine := router.New(lotHandler, harvestHandler, projectionHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduler, monitoringSvc, lotRepo, distributionRepo, exporter, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
