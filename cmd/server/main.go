package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/binroute/backend/internal/config"
	"github.com/binroute/backend/internal/db"
	httpapi "github.com/binroute/backend/internal/http"
	"github.com/binroute/backend/internal/notify"
	"github.com/binroute/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "binroute-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	engine := service.NewEngine(store.Collectors(), store.Grievances(), logger, service.Policy{
		Capacity:          cfg.CollectorCapacity,
		VarianceThreshold: cfg.BalanceVarianceThreshold,
		RebalanceGap:      cfg.RebalanceGapThreshold,
	})

	var notifier notify.Notifier
	if cfg.NotifyURL == "" {
		notifier = notify.LogNotifier{Logger: logger}
		logger.Info().Msg("using log notifier")
	} else {
		notifier = notify.HTTPNotifier{BaseURL: cfg.NotifyURL}
	}

	router := httpapi.Router(cfg, store, engine, notifier, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
