package main

import (
	"context"
	"os"
	"time"

	"moneypilot/internal/amqp"
	"moneypilot/internal/cli"
	"moneypilot/internal/log"
	"moneypilot/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	loc := cli.MustLocation(logger, cfg)

	logger.Info("Starting reminder-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}

	store := cli.OpenStore(context.Background(), logger, cfg)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close store", log.FieldError, err)
		}
	}()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP).Slog())
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	notifier := services.NewReminderNotifier(store.Store, amqpClient, services.ReminderNotifierConfig{
		CheckInterval: cfg.ReminderCheckInterval,
		DueDays:       cfg.ReminderDueDays,
		DueKm:         cfg.ReminderDueKm,
		Locale:        cfg.Locale,
	}, logger, services.WithLocation(loc))

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := notifier.Stop(ctx); err != nil {
			logger.Error("Failed to stop reminder notifier", log.FieldError, err)
		}
	})

	if err := notifier.Start(ctx); err != nil {
		logger.Error("Failed to start reminder notifier", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Reminder worker started",
		"check_interval", cfg.ReminderCheckInterval,
		"due_days", cfg.ReminderDueDays,
		"due_km", cfg.ReminderDueKm)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Reminder worker stopped")
}
