package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/l31-dev/Autha/internal/account/cache"
	"github.com/l31-dev/Autha/internal/account/credentials"
	"github.com/l31-dev/Autha/internal/account/handler"
	"github.com/l31-dev/Autha/internal/account/pii"
	"github.com/l31-dev/Autha/internal/account/service"
	"github.com/l31-dev/Autha/internal/account/store"
	"github.com/l31-dev/Autha/internal/platform/config"
	"github.com/l31-dev/Autha/internal/platform/httpserver"
	"github.com/l31-dev/Autha/internal/platform/logger"
	"github.com/l31-dev/Autha/internal/platform/redis"
	"github.com/l31-dev/Autha/internal/platform/token"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages; every external
// client (store, cache, cipher) is constructed here and injected, so no
// package owns ambient connection state.
func main() {
	log := logger.New(slog.LevelInfo)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	profiles, err := store.NewPostgres(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer profiles.Close()

	if err := profiles.EnsureSchema(ctx); err != nil {
		log.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	piiKey, err := cfg.DecodePIIKey()
	if err != nil {
		log.Error("PII key error", "error", err)
		os.Exit(1)
	}
	cipher, err := pii.NewCipher(piiKey)
	if err != nil {
		log.Error("PII cipher error", "error", err)
		os.Exit(1)
	}

	accounts := service.New(
		profiles,
		cache.NewRedisCache(redisClient.Client),
		cipher,
		credentials.NewVerifier(),
		log,
		service.WithSnapshotTTL(cfg.SnapshotTTL),
	)

	router := chi.NewRouter()
	handler.New(accounts, token.NewValidator(cfg.JWTSigningKey), log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := profiles.Health(r.Context()); err != nil {
			http.Error(w, "store unhealthy", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Health(r.Context()); err != nil {
			http.Error(w, "cache unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting autha", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
