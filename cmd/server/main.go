package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/config"
	"github.com/poultrydesk/eggledger/internal/repository/mongodb"
	"github.com/poultrydesk/eggledger/internal/repository/sheets"
	"github.com/poultrydesk/eggledger/internal/scheduler"
	"github.com/poultrydesk/eggledger/internal/server/handlers"
	"github.com/poultrydesk/eggledger/internal/server/router"
	inventorysvc "github.com/poultrydesk/eggledger/internal/service/inventory"
	pricingsvc "github.com/poultrydesk/eggledger/internal/service/pricing"
	productionsvc "github.com/poultrydesk/eggledger/internal/service/production"
	reportingsvc "github.com/poultrydesk/eggledger/internal/service/reporting"
	salessvc "github.com/poultrydesk/eggledger/internal/service/sales"
	"github.com/poultrydesk/eggledger/pkg/clients/alerting"
	"github.com/poultrydesk/eggledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	inventorySvc := inventorysvc.NewService(repo, baseLogger.Named("svc.inventory"))
	pricingSvc := pricingsvc.NewService(repo, baseLogger.Named("svc.pricing"))
	productionSvc := productionsvc.NewService(repo, inventorySvc, repo, baseLogger.Named("svc.production"))
	salesSvc := salessvc.NewService(repo, inventorySvc, pricingSvc, baseLogger.Named("svc.sales"))
	reportingSvc := reportingsvc.NewService(repo, repo, repo, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Inventory:  handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Production: handlers.NewProductionHandler(productionSvc, baseLogger.Named("handlers.production")),
		Pricing:    handlers.NewPricingHandler(pricingSvc, baseLogger.Named("handlers.pricing")),
		Sales:      handlers.NewSalesHandler(salesSvc, baseLogger.Named("handlers.sales")),
		Reports:    handlers.NewReportsHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}, baseLogger.Named("router"))

	var exporter sheets.Exporter
	if cfg.Sheets.CredentialsPath != "" && cfg.Sheets.SpreadsheetID != "" {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheets export enabled")
	}

	var notifier alerting.Notifier
	if cfg.Alerting.WebhookURL != "" {
		notifier = alerting.NewWebhookClient(cfg.Alerting.WebhookURL)
		baseLogger.Info("low stock alerting enabled")
	}

	sched := scheduler.NewScheduler(*cfg, reportingSvc, repo, exporter, notifier, baseLogger.Named("scheduler"))
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
