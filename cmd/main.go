/**
 * @description
 * This is the main entry point for the FortisBank account service. It wires
 * the storage backend selected by STORAGE_MODE, the notification dispatch
 * service, the account request workflow, the HTTP router and the cron
 * scheduler, then runs until interrupted.
 *
 * Key features:
 * - Loads application configuration from environment variables.
 * - Opens the persistence gateway exactly once for the selected mode.
 * - Falls back to a logging publisher when RabbitMQ is unreachable.
 * - Implements graceful shutdown for the HTTP server and the scheduler.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/willdom-kahari/FortisBankApp/internal/api"
	"github.com/willdom-kahari/FortisBankApp/internal/app"
	"github.com/willdom-kahari/FortisBankApp/internal/config"
	"github.com/willdom-kahari/FortisBankApp/internal/store"
	"github.com/willdom-kahari/FortisBankApp/pkg/rabbitmq"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	mode, err := store.ParseStorageMode(cfg.StorageMode)
	if err != nil {
		logger.Error("invalid storage mode", "mode", cfg.StorageMode, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	gateway, err := store.Open(ctx, mode, cfg.DatabaseURL, cfg.DataFile)
	if err != nil {
		logger.Error("cannot open storage", "mode", string(mode), "error", err)
		os.Exit(1)
	}
	logger.Info("storage ready", "mode", string(mode))

	// Event producer, with a logging fallback so the service still starts
	// when the broker is down.
	var producer rabbitmq.Publisher
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, events will be logged only", "error", err)
			producer = &rabbitmq.FallbackPublisher{Logger: logger}
		} else {
			producer = p
		}
	} else {
		producer = &rabbitmq.FallbackPublisher{Logger: logger}
	}
	defer producer.Close()

	savingsRate, err := cfg.SavingsRate()
	if err != nil {
		logger.Error("invalid savings rate", "error", err)
		os.Exit(1)
	}
	creditRate, err := cfg.CreditRate()
	if err != nil {
		logger.Error("invalid credit rate", "error", err)
		os.Exit(1)
	}
	rates := app.NewRateConfig(savingsRate, creditRate)

	notifier := app.NewNotificationService(gateway.Customers, gateway.Managers, logger)
	workflow := app.NewAccountRequestService(gateway.Accounts, notifier, producer, rates, logger)
	session := api.NewSession(gateway.Customers, gateway.Managers)

	jobs := app.NewJobs(gateway.Accounts, gateway.Customers, gateway.Managers, notifier, logger,
		time.Duration(cfg.DormancyThresholdDays)*24*time.Hour)
	scheduler := app.NewScheduler(jobs, logger, app.Schedules{
		PendingReminder: cfg.PendingReminderSchedule,
		DormancySweep:   cfg.DormancySweepSchedule,
		Reconcile:       cfg.ReconcileSchedule,
	})
	scheduler.Start()

	router := api.NewRouter(
		api.NewAccountHandler(workflow, gateway.Accounts, gateway.Managers, session),
		api.NewNotificationHandler(notifier, session),
	)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("could not start server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown logic.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
