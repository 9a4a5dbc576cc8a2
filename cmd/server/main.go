// Command server runs the clinic authentication and user-management API.
//
// @title                       Clinic API
// @version                     1.0
// @description                 Authentication and user management for the clinic platform.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicflow/clinic-api/internal/api"
	"github.com/clinicflow/clinic-api/internal/api/handler"
	"github.com/clinicflow/clinic-api/internal/core/ports"
	"github.com/clinicflow/clinic-api/internal/core/service"
	"github.com/clinicflow/clinic-api/internal/infrastructure/config"
	"github.com/clinicflow/clinic-api/internal/infrastructure/crypto"
	mongostore "github.com/clinicflow/clinic-api/internal/infrastructure/db/mongo"
	redisstore "github.com/clinicflow/clinic-api/internal/infrastructure/db/redis"
	"github.com/clinicflow/clinic-api/internal/infrastructure/queue"
	"github.com/clinicflow/clinic-api/internal/infrastructure/token"
	"github.com/clinicflow/clinic-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

// run owns every resource it opens; returning instead of exiting lets the
// deferred closes run on startup failures too.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Config decides the log level, so report with a bootstrap logger.
		logger.Init(logger.Options{Level: "info"})
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	store, err := mongostore.Open(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close mongo")
		}
	}()

	users := mongostore.NewUserRepository(store.Database())
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	checks := map[string]handler.Check{
		"mongodb": store.Ping,
	}

	var revoked ports.RevocationList = redisstore.NopRevocationList{}
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	switch {
	case errors.Is(err, redisstore.ErrNotConfigured):
		log.Info().Msg("redis not configured, logout will not revoke tokens")
	case err != nil:
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, logout will not revoke tokens")
	default:
		defer rdb.Close()
		revoked = redisstore.NewRevocationList(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, mongostore.NewAuditRepository(store.Database()), log)
	dispatcher.Start()
	defer dispatcher.Close()

	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)
	issuer := token.NewJWTIssuer(cfg.Auth.JWTSecret)

	authService := service.NewAuthService(users, hasher, issuer, revoked, dispatcher, service.TokenLifetimes{
		Interactive: cfg.Auth.TokenTTL,
		Service:     cfg.Auth.ServiceTokenTTL,
	}, log)
	userService := service.NewUserService(users, hasher, dispatcher, cfg.DefaultPasswords(), log)

	if cfg.Seed.AdminEmail != "" {
		admin, created, err := userService.EnsureAdmin(ctx, ports.SeedAdminInput{
			Name:     cfg.Seed.AdminName,
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
		})
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.Info().Str("email", admin.Email).Bool("created", created).Msg("admin account ready")
	}

	e := api.NewRouter(api.Dependencies{
		Auth:   authService,
		Users:  userService,
		Checks: checks,
		Log:    log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Msg("clinic api listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
