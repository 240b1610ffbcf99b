package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatwave/auth-api/internal/api"
	"github.com/chatwave/auth-api/internal/core/ports"
	"github.com/chatwave/auth-api/internal/infrastructure/config"
	mongodb "github.com/chatwave/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chatwave/auth-api/internal/infrastructure/db/redis"
	"github.com/chatwave/auth-api/internal/infrastructure/events"
	"github.com/chatwave/auth-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        ChatWave Auth API
// @version      1.0
// @description  Token-based authentication API: registration, login, logout, refresh, and profile.
// @BasePath     /
//
// @securityDefinitions.apikey BearerAuth
// @in    header
// @name  Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	dispatcher := events.NewDispatcher(0, log)
	dispatcher.Subscribe(func(_ context.Context, ev ports.UserEvent) {
		log.Info().
			Str("event", ev.Name).
			Str("user_id", ev.UserID).
			Str("username", ev.Username).
			Msg("user event")
	})
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
