package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tickethub/ticketing-system/internal/api"
	"github.com/tickethub/ticketing-system/internal/core/service"
	"github.com/tickethub/ticketing-system/internal/infrastructure/config"
	mongodb "github.com/tickethub/ticketing-system/internal/infrastructure/db/mongo"
	redisdb "github.com/tickethub/ticketing-system/internal/infrastructure/db/redis"
	"github.com/tickethub/ticketing-system/internal/infrastructure/identity"
	"github.com/tickethub/ticketing-system/internal/infrastructure/queue"
	"github.com/tickethub/ticketing-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	// --- Redis (user cache) ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Identity gateway ---
	keycloak := identity.NewKeycloakClient(identity.Config{
		Realm:          cfg.Keycloak.Realm,
		AuthServerURL:  cfg.Keycloak.AuthServerURL,
		ClientID:       cfg.Keycloak.ClientID,
		ClientSecret:   cfg.Keycloak.ClientSecret,
		MasterRealm:    cfg.Keycloak.MasterRealm,
		MasterClient:   cfg.Keycloak.MasterClient,
		MasterUser:     cfg.Keycloak.MasterUser,
		MasterPassword: cfg.Keycloak.MasterPassword,
	}, log)

	// --- Audit pipeline ---
	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(0, auditService, log)
	dispatcher.Start()

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		DB:        db,
		Redis:     rdb,
		Identity:  keycloak,
		Audit:     dispatcher,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("ticketing API started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// Drain the audit queue only after the HTTP server stopped producing.
	dispatcher.Stop(shutdownCtx)
}
