package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/config"
	"fintrack/internal/logger"
	"fintrack/internal/notifier"
	"fintrack/internal/queue"
)

// The worker consumes budget alert messages from the queue and delivers
// them by mail, retrying transient SMTP failures before giving up.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required for the notification worker")
	}

	client, err := queue.NewClient(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
	if err != nil {
		return fmt.Errorf("failed to connect notification queue: %w", err)
	}
	defer client.Close()

	sender := notifier.NewSMTPSender(
		appConfig.SMTPHost,
		appConfig.SMTPPort,
		appConfig.SMTPUser,
		appConfig.SMTPPassword,
		appConfig.MailFrom,
	)
	mailer := notifier.New(sender, appConfig.MailRetries, appConfig.MailRetryDelay)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("notification worker started",
		"queue", appConfig.AMQPQueue,
		"retries", appConfig.MailRetries,
		"retry_delay", appConfig.MailRetryDelay,
	)

	return client.ConsumeBudgetAlerts(ctx, func(msg *queue.BudgetAlertMessage) error {
		return mailer.SendBudgetAlert(ctx, msg)
	})
}
