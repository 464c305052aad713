package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glprevenda/erp-auth/internal/api"
	"github.com/glprevenda/erp-auth/internal/infrastructure/config"
	mongodb "github.com/glprevenda/erp-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/glprevenda/erp-auth/internal/infrastructure/db/redis"
	"github.com/glprevenda/erp-auth/pkg/logger"
)

// @title                      GLP ERP Auth API
// @version                    1.0
// @description                Stateless authentication service: registration, login and refresh token rotation.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(ctx) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Schema bootstrap: uniqueness indexes and the well-known roles.
	// Registration cannot succeed without the default role, so a seeding
	// failure is fatal here rather than a per-request surprise later.
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index bootstrap failed")
	}
	if err := mongodb.NewRoleRepository(db).SeedRoles(ctx); err != nil {
		log.Fatal().Err(err).Msg("role seed failed")
	}

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
