package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/socialblog/blogging-system/internal/api"
	"github.com/socialblog/blogging-system/internal/core/service"
	"github.com/socialblog/blogging-system/internal/infrastructure/config"
	mongodb "github.com/socialblog/blogging-system/internal/infrastructure/db/mongo"
	redisdb "github.com/socialblog/blogging-system/internal/infrastructure/db/redis"
	"github.com/socialblog/blogging-system/internal/infrastructure/queue"
	"github.com/socialblog/blogging-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Async view counting ---
	postRepo := mongodb.NewPostRepository(db)
	viewDedup := redisdb.NewViewDedup(rdb, cfg.Redis.ViewTTL)
	viewService := service.NewViewService(postRepo, viewDedup, log)
	dispatcher := queue.NewDispatcher(0, viewService, log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e, err := api.NewRouter(api.Deps{
		DB:    db,
		Redis: rdb,
		Cfg:   cfg,
		Log:   log,
		Views: dispatcher,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
