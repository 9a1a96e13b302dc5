package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"lendinghub/database"
	"lendinghub/internal/config"
	"lendinghub/internal/microservices/http-api/handler"
	"lendinghub/internal/microservices/http-api/repository"
	"lendinghub/internal/microservices/http-api/service"
	"lendinghub/internal/microservices/websocket"
	"lendinghub/internal/notifier"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set for the API server")
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
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

	// Live feed for connected users. With redis it follows the pub/sub channel, so
	// holdings created by the sweeper reach it too.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed := websocket.NewHub(logger)
	go feed.Run(ctx)
	if channels.Redis != nil {
		go func() {
			if err := channels.Redis.Subscribe(ctx, feed.DeliverEvent, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("live feed subscription ended", "error", err)
			}
		}()
	} else {
		channels.Multi = append(channels.Multi, feed)
	}

	rules, err := service.NewRules(cfg)
	if err != nil {
		log.Fatalf("invalid lending rules: %v", err)
	}

	router := handler.NewRouter(cfg.JWTSecret, handler.Services{
		Stocks:        service.NewStockService(store.Stocks()),
		Holds:         service.NewHoldService(store, channels, rules, logger),
		Lendings:      service.NewLendingService(store, channels, rules, logger),
		Reservations:  service.NewReservationService(store, rules, logger),
		Notifications: service.NewNotificationService(store.Notifications()),
		Feed:          feed,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
