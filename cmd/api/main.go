package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tourbooking/internal/app"
	"tourbooking/internal/config"
	"tourbooking/internal/database"
	"tourbooking/internal/notification"
	"tourbooking/internal/pkg/logger"
)

func main() {
	// .env is optional; the process environment wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, !cfg.IsProd())

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	cacheCfg := config.LoadCacheConfig()
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, response cache disabled")
	}

	var broker *notification.AMQPPublisher
	queueCfg := config.LoadQueueConfig()
	if queueCfg.Enabled {
		broker = notification.NewAMQPPublisher(queueCfg.URL, queueCfg.Queue, log,
			notification.WithBuffer(queueCfg.Buffer))
		log.Info().Str("queue", queueCfg.Queue).Msg("event publishing to RabbitMQ enabled")
	}

	opts := app.Options{
		Config: cfg,
		Cache:  cacheCfg,
		DB:     db,
		Redis:  rdb,
		Log:    log,
	}
	if broker != nil {
		opts.Events = broker
	}
	application := app.New(opts)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           application.Router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		application.Hub.Close()
		if broker != nil {
			_ = broker.Close()
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	})

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
