package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/novinsoft/signup-system/internal/api"
	"github.com/novinsoft/signup-system/internal/api/handler"
	"github.com/novinsoft/signup-system/internal/core/ports"
	"github.com/novinsoft/signup-system/internal/core/service"
	mongodb "github.com/novinsoft/signup-system/internal/infrastructure/db/mongo"
	mysqldb "github.com/novinsoft/signup-system/internal/infrastructure/db/mysql"
	redisdb "github.com/novinsoft/signup-system/internal/infrastructure/db/redis"
	"github.com/novinsoft/signup-system/internal/pkg/config"
	"github.com/novinsoft/signup-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Storage backend (selected once, injected as the interface) ---
	var (
		repo         ports.RegistrationRepository
		healthChecks = map[string]handler.HealthCheck{}
	)
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()

		mongoRepo := mongodb.NewRegistrationRepository(db)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo index creation failed")
		}
		repo = mongoRepo
		healthChecks["store"] = func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}

	case config.DriverMySQL:
		db, err := mysqldb.Connect(ctx, mysqldb.Config{
			DSN:          cfg.MySQL.DSN,
			MaxOpenConns: cfg.MySQL.MaxOpenConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connection failed")
		}
		defer db.Close()

		repo = mysqldb.NewRegistrationRepository(db)
		healthChecks["store"] = db.PingContext
	}

	// --- Optional Redis (login throttling) ---
	var limiter handler.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()

		limiter = redisdb.NewLoginLimiter(rdb, cfg.Limiter.MaxAttempts, cfg.Limiter.Window, log)
		healthChecks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	svc := service.NewRegistrationService(repo, log)

	e := api.NewRouter(api.Deps{
		Service: svc,
		Admin: handler.AdminConfig{
			Username:     cfg.Admin.Username,
			Password:     cfg.Admin.Password,
			PasswordHash: cfg.Admin.PasswordHash,
			Secret:       []byte(cfg.SessionSecret),
			SessionTTL:   cfg.Admin.SessionTTL,
		},
		AdminKey:     cfg.Admin.Key,
		LoginLimiter: limiter,
		HealthChecks: healthChecks,
		Logger:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.Storage.Driver).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
