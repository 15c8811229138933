package main

import (
	"context"
	"net/http"
	"os"

	"github.com/assetdesk/assetdesk-backend/api/routes"
	"github.com/assetdesk/assetdesk-backend/internal/admingate"
	"github.com/assetdesk/assetdesk-backend/internal/alerts"
	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/csvio"
	"github.com/assetdesk/assetdesk-backend/internal/ledger"
	"github.com/assetdesk/assetdesk-backend/internal/lifecycle"
	"github.com/assetdesk/assetdesk-backend/internal/qrexport"
	"github.com/assetdesk/assetdesk-backend/internal/reservations"
	"github.com/assetdesk/assetdesk-backend/internal/summary"
	"github.com/assetdesk/assetdesk-backend/internal/users"
	"github.com/assetdesk/assetdesk-backend/pkg/config"
	"github.com/assetdesk/assetdesk-backend/pkg/db"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
	"github.com/assetdesk/assetdesk-backend/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(context.Background(), dbClient, logg); err != nil {
			logg.Error(context.Background(), "failed to migrate schema", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	assetRepo := assets.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())
	reservationRepo := reservations.NewRepository(dbClient.DB())

	alertService, err := alerts.NewService(assetRepo, ledgerRepo, cfg.Alerts.OverdueAfter, logg, m)
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}

	assetService, err := assets.NewService(assetRepo, alertService)
	if err != nil {
		logg.Error(context.Background(), "failed to create asset service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledgerRepo, alertService, m)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	lifecycleService, err := lifecycle.NewService(assetRepo, ledgerService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle service", err)
		os.Exit(1)
	}

	importer, err := csvio.NewImporter(assetRepo, alertService, logg, m)
	if err != nil {
		logg.Error(context.Background(), "failed to create csv importer", err)
		os.Exit(1)
	}

	qrService := qrexport.NewService(cfg.QRExport.ImageSize, cfg.QRExport.Concurrency, logg, m)

	userService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	reservationService, err := reservations.NewService(reservationRepo, assetRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation service", err)
		os.Exit(1)
	}

	adminGate, err := admingate.NewService(userRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin gate", err)
		os.Exit(1)
	}

	summaryService, err := summary.NewService(assetRepo, ledgerRepo, cfg.OpenAI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create summary service", err)
		os.Exit(1)
	}

	// Seed the alert set from whatever the store already holds.
	alertService.Recompute(context.Background())

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, registry, routes.Services{
			Assets:       assetService,
			Ledger:       ledgerService,
			Lifecycle:    lifecycleService,
			Alerts:       alertService,
			Importer:     importer,
			QRExport:     qrService,
			Users:        userService,
			Reservations: reservationService,
			AdminGate:    adminGate,
			Summary:      summaryService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
