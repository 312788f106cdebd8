package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"meal-checkin/internal/app"
	"meal-checkin/internal/config"
	"meal-checkin/internal/lib/logger"
)

func main() {
	cfg := config.MustLoad()

	log := logger.New(cfg.Env, cfg.SentryDSN)
	defer sentry.Flush(2 * time.Second)

	log.Info("starting meal check-in service", "env", cfg.Env, "storage", cfg.Storage.Driver)

	application := app.MustNew(log, cfg)

	go application.MustRun()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	application.GracefulShutdown()
	log.Info("application stopped")
}
