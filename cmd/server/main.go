package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/damagelog/internal/config"
	"github.com/mamadbah2/damagelog/internal/repository/mongodb"
	"github.com/mamadbah2/damagelog/internal/repository/sheets"
	"github.com/mamadbah2/damagelog/internal/scheduler"
	"github.com/mamadbah2/damagelog/internal/server/handlers"
	"github.com/mamadbah2/damagelog/internal/server/router"
	"github.com/mamadbah2/damagelog/internal/server/templates"
	intakesvc "github.com/mamadbah2/damagelog/internal/service/intake"
	whatsappsvc "github.com/mamadbah2/damagelog/internal/service/whatsapp"
	intakeclient "github.com/mamadbah2/damagelog/pkg/clients/intake"
	whatsappclient "github.com/mamadbah2/damagelog/pkg/clients/whatsapp"
	"github.com/mamadbah2/damagelog/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var intakeHandler *handlers.IntakeHandler
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}

		var opts []intakesvc.Option
		if cfg.MongoDB.Enabled() {
			mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
			if err != nil {
				baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
			}
			defer func() {
				if err := mongoRepo.Close(context.Background()); err != nil {
					baseLogger.Error("failed to close mongodb connection", zap.Error(err))
				}
			}()
			opts = append(opts, intakesvc.WithArchive(mongoRepo))
		} else {
			baseLogger.Warn("mongodb uri missing, submission archive disabled")
		}

		if cfg.WhatsApp.Enabled() {
			whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
			opts = append(opts, intakesvc.WithNotifier(whatsappsvc.NewNotifier(cfg.WhatsApp, whatsClient, logger.Named(baseLogger, "svc.whatsapp"))))
			baseLogger.Info("whatsapp submission notifications enabled")
		}

		intakeService := intakesvc.NewService(sheetsRepo, cfg.Intake, logger.Named(baseLogger, "svc.intake"), opts...)
		if _, err := intakeService.RefreshSites(ctx); err != nil {
			baseLogger.Warn("initial site load failed", zap.Error(err))
		}

		sched := scheduler.NewScheduler(intakeService, logger.Named(baseLogger, "scheduler"))
		if err := sched.Start(cfg.Intake.SiteRefreshSchedule); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()

		intakeHandler = handlers.NewIntakeHandler(intakeService, logger.Named(baseLogger, "handlers.intake"))
	}

	tmpl, err := templates.Parse()
	if err != nil {
		baseLogger.Fatal("failed to parse templates", zap.Error(err))
	}

	client := intakeclient.NewClient(cfg.IntakeURL(), cfg.Intake.RequestTimeout)
	formHandler := handlers.NewFormHandler(client, logger.Named(baseLogger, "handlers.form"))
	engine := router.New(formHandler, intakeHandler, tmpl, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("intake_url", cfg.IntakeURL()))
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
