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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/config"
	todohttp "github.com/limegom/FastApi-Todos-by-jong1/internal/http"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/logger"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/middleware"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/service"
)

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.ParseLogLevel(), cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	log.Info("config loaded",
		zap.String("env", cfg.AppEnv),
		zap.String("port", cfg.ServerPort),
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("log_level", cfg.ParseLogLevel().String()),
		zap.Bool("auth_enabled", cfg.Auth.Enabled()),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled()),
	)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := todohttp.Options{
		Port: cfg.ServerPort,
		Router: todohttp.RouterConfig{
			TodoSvc:      service.NewTodoService(st.todos, service.WithLocation(loc)),
			RepeatingSvc: service.NewRepeatingService(st.repeating),
			TemplatePath: cfg.TemplatePath,
			HealthChecks: st.checks,
		},
	}

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts.Router.Gatherer = reg
		opts.Metrics = middleware.NewMetrics(reg)
	}
	if cfg.RateLimit.Enabled() {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	if cfg.Auth.Enabled() {
		auth, err := middleware.NewAuth(middleware.AuthConfig{
			Secret: []byte(cfg.Auth.JWTSecret),
			Issuer: cfg.Auth.JWTIssuer,
		})
		if err != nil {
			return fmt.Errorf("failed to create auth middleware: %w", err)
		}
		opts.Auth = auth
	}

	srv := todohttp.NewServer(opts, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
