package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"milestone-escrow/internal/adapter/auth"
	httpadapter "milestone-escrow/internal/adapter/http"
	"milestone-escrow/internal/adapter/memory"
	"milestone-escrow/internal/adapter/metrics"
	"milestone-escrow/internal/adapter/postgres"
	"milestone-escrow/internal/adapter/rabbitmq"
	redisstore "milestone-escrow/internal/adapter/redis"
	"milestone-escrow/internal/adapter/sqlite"
	"milestone-escrow/internal/adapter/usecase"
	"milestone-escrow/internal/config"
	"milestone-escrow/internal/core/port"
	"milestone-escrow/internal/db"
)

// main is the entry point of the escrow service. It loads configuration,
// opens the selected store (running migrations where needed), wires the
// authorizer, event publisher and metrics around the use case, then starts
// the HTTP server. On receiving a termination signal it gracefully shuts
// down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return
	}

	logger := cfg.Log.New(os.Stdout).With(slog.String("env", cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store initialisation error", slog.String("backend", cfg.StoreBackend), slog.Any("error", err))
		return
	}
	defer closeStore()

	var events port.EventPublisher = rabbitmq.LogPublisher{Logger: logger}
	if cfg.AMQP.Enabled {
		pub, err := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			// events are best effort; keep serving without a broker
			logger.Warn("rabbitmq unavailable, events will only be logged", slog.Any("error", err))
		} else {
			defer pub.Close()
			events = pub
		}
	}

	var (
		authorizer port.Authorizer = auth.ContextAuthorizer{}
		tokens     *auth.TokenService
	)
	if cfg.Auth.Permissive {
		logger.Warn("permissive auth enabled, identity claims are not verified")
		authorizer = auth.Permissive{}
	} else {
		if tokens, err = auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer); err != nil {
			logger.Error("token service error", slog.Any("error", err))
			return
		}
	}

	policy, err := cfg.Escrow.Policy()
	if err != nil {
		logger.Error("invalid escrow policy", slog.Any("error", err))
		return
	}
	core := usecase.NewEscrowUseCase(store, authorizer, events, logger, usecase.Options{
		ApprovalPolicy: policy,
		RequireBacker:  cfg.Escrow.RequireBacker,
		MaxMilestones:  cfg.Escrow.MaxMilestones,
	})
	svc, err := metrics.NewUseCase(core, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("metrics registration error", slog.Any("error", err))
		return
	}

	if cfg.SeedDemo {
		// seeding acts on behalf of demo identities, bypassing token checks
		if err = db.Seed(ctx, svc); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("demo data seeded")
			logDemoTokens(logger, tokens, cfg.Auth.DemoTTL)
		}
	}

	var verifier httpadapter.TokenVerifier
	if tokens != nil {
		verifier = tokens
	}
	handler := httpadapter.NewHandler(svc, verifier, promhttp.Handler(), logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)), slog.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err = <-serveErr:
		logger.Error("server error", slog.Any("error", err))
		return
	case <-ctx.Done():
		exitCode = 0
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}

// openStore builds the KV store selected by cfg.StoreBackend. The returned
// func releases its resources.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.KVStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		// Optionally run migrations if configured. We use the Psql sub‑config.
		if cfg.Psql.RunMigrations {
			if err := db.Migrate(cfg.Psql.Addr.String()); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied successfully")
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewKVStore(pool), pool.Close, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("sqlite close error", slog.Any("error", err))
			}
		}, nil

	case config.BackendRedis:
		client, err := db.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewKVStore(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil

	default:
		logger.Warn("in-memory store selected, state is lost on restart")
		return memory.NewStore(), func() {}, nil
	}
}

// logDemoTokens prints bearer tokens for the seeded identities so the demo
// API can be exercised with curl.
func logDemoTokens(logger *slog.Logger, tokens *auth.TokenService, ttl time.Duration) {
	if tokens == nil {
		return
	}
	for _, who := range []string{"alice", "bob", "carol", "dave", "erin"} {
		token, err := tokens.Issue(who, ttl)
		if err != nil {
			logger.Warn("demo token error", slog.String("principal", who), slog.Any("error", err))
			continue
		}
		logger.Info("demo token", slog.String("principal", who), slog.String("bearer", token))
	}
}
