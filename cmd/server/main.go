// Command server runs the VDS hosting API: authentication and
// registration with email verification, username availability checks, the
// plan catalogue and payment initiation.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/pr-poehali-dev/vds-server-api/docs"
	"github.com/pr-poehali-dev/vds-server-api/internal/api"
	"github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/config"
	mongostore "github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/db/mongo"
	redisstore "github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/db/redis"
	"github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/email"
	"github.com/pr-poehali-dev/vds-server-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongostore.NewCredentialStore(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	mail := email.NewDispatcher(0, email.LogDeliverer{Log: logger.Component("mail")}, cfg.BaseURL, logger.Component("mail"))
	mail.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, mail, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
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
