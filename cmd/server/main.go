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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_ops/internal/config"
	"transit_ops/internal/logger"
	"transit_ops/internal/policy"
	"transit_ops/internal/realtime"
	"transit_ops/internal/repository"
	"transit_ops/internal/routes"
	"transit_ops/internal/service"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logOut := logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	if err := config.SeedSuperAdmin(db, cfg.SuperAdmin); err != nil {
		return fmt.Errorf("seed superadmin: %w", err)
	}
	store := repository.NewStore(db)

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	var cache *service.CacheService
	if cfg.Redis.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		client, err := repository.NewRedis(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logrus.WithError(err).WithField("addr", addr).Warn("redis unavailable, caching disabled")
		} else {
			defer client.Close()
			cache = service.NewCacheService(repository.NewCacheRepository(client), metrics, cfg.Redis.CacheTTL, true)
			logrus.WithField("addr", addr).Info("redis cache enabled")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()
	hub.OnClientsChanged(metrics.SetWebsocketClients)
	go hub.Run(ctx)

	services := service.New(service.Deps{
		Store:     store,
		Tokens:    service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration),
		Cache:     cache,
		Metrics:   metrics,
		Publisher: hub,
		Accounts:  policy.Accounts{ProtectedEmail: cfg.SuperAdmin.Email},
	})

	router := routes.SetupRouter(routes.Options{
		Services:       services,
		Hub:            hub,
		APIPrefix:      cfg.APIPrefix,
		StrictAuth:     cfg.StrictAuth,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AccessLog:      logOut,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
