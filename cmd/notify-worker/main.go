package main

import (
	"context"
	"errors"
	"os"
	"time"

	"moneypilot/internal/amqp"
	"moneypilot/internal/cli"
	"moneypilot/internal/log"
	"moneypilot/internal/services"
)

const retryDelay = 5 * time.Second

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	loc := cli.MustLocation(logger, cfg)

	logger.Info("Starting notify-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notify worker")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP).Slog())
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	sink := services.NewLogSink(logger, services.WithLocation(loc))

	ctx, done := cli.GracefulShutdown(logger, 15*time.Second, nil)

	go consume(ctx, logger, amqpClient, sink)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Notify worker stopped")
}

// consume restarts consumption after a broken channel until ctx ends.
func consume(ctx context.Context, logger *log.Logger, client *amqp.Client, sink *services.LogSink) {
	for {
		err := client.ConsumeReminderDue(ctx, sink.Deliver)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("Message consumption failed, retrying",
			log.FieldOperation, log.OpConsume,
			log.FieldError, err,
			"retry_in", retryDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}
