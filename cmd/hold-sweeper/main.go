package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lendinghub/database"
	"lendinghub/internal/config"
	"lendinghub/internal/microservices/http-api/repository"
	"lendinghub/internal/microservices/http-api/service"
	"lendinghub/internal/notifier"
	"lendinghub/internal/sweeper"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger().With("service", "hold-sweeper")

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer database.Close(db)

	store := repository.NewStore(db)
	channels, err := notifier.FromConfig(cfg, store.Notifications(), logger)
	if err != nil {
		log.Fatalf("could not set up notifications: %v", err)
	}
	defer channels.Close()

	rules, err := service.NewRules(cfg)
	if err != nil {
		log.Fatalf("invalid lending rules: %v", err)
	}
	holds := service.NewHoldService(store, channels, rules, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("hold sweeper started",
		"interval", cfg.SweepInterval,
		"workers", cfg.SweepWorkers,
		"grace_period", cfg.HoldGracePeriod,
	)
	err = sweeper.New(holds, cfg.SweepWorkers, cfg.SweepInterval, logger).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("hold sweeper exited", "error", err)
		os.Exit(1)
	}
}
