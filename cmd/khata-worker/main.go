package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"khata/internal/amqp"
	"khata/internal/config"
	applog "khata/internal/log"
	"khata/internal/notify"
	"khata/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	root := applog.New(os.Stdout, slog.LevelInfo)
	applog.SetDefault(root)
	logger := root.WithComponent(applog.ComponentWorker)

	logger.Info("Starting khata-worker")

	// Load configuration
	cfg := config.Load()
	// The worker always sends mail, so SMTP settings are mandatory here
	// regardless of the API's NOTIFY_BACKEND setting.
	cfg.NotifyBackend = "smtp"
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	// Initialize AMQP client for consuming alert messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mailer := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Password: cfg.SMTPPassword,
	})
	alertWorker := worker.NewAlertWorker(mailer)

	// Stop on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeBudgetAlerts(gctx, alertWorker.HandleAlertMessage)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}

	// Give in-flight deliveries a moment to finish before the process
	// and its AMQP connection go away.
	time.Sleep(time.Second)
	logger.Info("Worker shutdown complete")
}
