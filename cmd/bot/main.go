package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/metrics"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
)

func main() {
	fmt.Println("Homework Status Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	mainLogger, closeLog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize logger: %v", err)
	}
	defer closeLog()

	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, RetryPeriod: %s, DuplicateDelay: %s",
		cfg.LogLevel, cfg.Environment, cfg.RetryPeriod, cfg.DuplicateDelay)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr, mainLogger); err != nil {
				mainLogger.WithError(err).Error("Metrics endpoint stopped")
			}
		}()
	}

	// Optional delivery journal
	var journal notification.Journal = notification.NopJournal{}
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			mainLogger.Fatalf("Could not connect to database: %v", err)
		}
		defer db.Close()
		pgJournal := idb.NewPostgresDeliveryJournal(db)
		if err := pgJournal.EnsureSchema(ctx); err != nil {
			mainLogger.Fatalf("Could not prepare delivery journal: %v", err)
		}
		journal = pgJournal
		mainLogger.Info("Delivery journal enabled.")
	}

	// Telegram
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.HTTPTimeout)
	if err != nil {
		mainLogger.Fatalf("Could not create Telegram bot: %v", err)
	}
	notifier := app.NewNotifier(
		telegram.NewTelebotAdapter(bot),
		cfg.TelegramChatID,
		cfg.NotifyInterval,
		journal,
		m,
		mainLogger.WithField("component", "notifier"),
	)

	// Practicum API
	apiClient := practicum.NewClient(
		cfg.PracticumEndpoint,
		cfg.PracticumToken,
		&http.Client{Timeout: cfg.HTTPTimeout},
		mainLogger.WithField("component", "practicum"),
	)

	statusService := app.NewStatusService(
		apiClient,
		notifier,
		app.NewErrorDeduplicator(cfg.DuplicateDelay),
		m,
		mainLogger.WithField("component", "status"),
	)

	pollScheduler := scheduler.NewPollScheduler(
		statusService,
		cron.Every(cfg.RetryPeriod),
		mainLogger.WithField("component", "scheduler"),
	)

	mainLogger.Info("Application setup complete. Polling homework statuses...")
	pollScheduler.Run(ctx) // Blocks until SIGINT/SIGTERM

	mainLogger.Info("Application shut down.")
}
