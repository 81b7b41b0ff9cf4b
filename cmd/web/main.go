package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hireloop/hireloop/internal/auth"
	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/cvwatch"
	"github.com/hireloop/hireloop/internal/gateway"
	httpx "github.com/hireloop/hireloop/internal/http"
	"github.com/hireloop/hireloop/internal/http/handlers"
	"github.com/hireloop/hireloop/internal/observability"
	"github.com/hireloop/hireloop/internal/session"
	"github.com/hireloop/hireloop/internal/state"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing
	shutdownTracer, err := observability.InitTracer(context.Background(), "hireloop-web", cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		log.Warn("tracer init failed, continuing without traces", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	prom := observability.NewProm(registry)

	// backend gateway: the one place that knows the backend's address
	backend := gateway.New(cfg.BackendBaseURL, cfg.GatewayTimeout, log, prom)

	// identity provider + session cookie
	provider := auth.NewProvider(cfg.AuthDomain, cfg.AuthClientID, cfg.AuthClientSecret, cfg.AppBaseURL+"/auth/callback")
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.Env)

	// login-state store: Redis when configured, else in-memory
	var logins state.Store
	var redisPing handlers.Pinger

	if cfg.RedisAddr != "" {
		redisStore := state.NewRedisStore(state.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisStore.Close()

		logins = redisStore
		redisPing = redisStore.Ping
	} else {
		logins = state.NewMemoryStore()
	}

	watcher := cvwatch.New(backend, cfg.CVPollInterval, log, prom)

	router := httpx.NewRouter(httpx.Deps{
		Cfg:       cfg,
		Log:       log,
		Registry:  registry,
		Prom:      prom,
		Backend:   backend,
		Provider:  provider,
		Sessions:  sessions,
		Logins:    logins,
		Watcher:   watcher,
		RedisPing: redisPing,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// long enough for one CV status stream to outlive its run
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
