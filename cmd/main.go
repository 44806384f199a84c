package main

import (
	"bank-ledger/internal/api"
	mw "bank-ledger/internal/api/middleware"
	"bank-ledger/internal/app"
	"bank-ledger/internal/config"
	"bank-ledger/internal/infrastructure/logging"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func main() {
	cfg, logger := initializeApp()

	ledgerApp := initializeLedger(cfg, logger)
	defer ledgerApp.Close()

	redisClient := initializeRedis(cfg, logger)
	defer closeRedis(redisClient, logger)

	var limiterClient redis.Cmdable
	if redisClient != nil {
		limiterClient = redisClient
	}
	router := api.SetupRouter(ledgerApp.Service, cfg, limiterClient, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeLedger(cfg *config.Config, logger *slog.Logger) *app.Ledger {
	logger.Info("Loading ledger...", "driver", cfg.Storage.Driver)
	ledgerApp, err := app.OpenLedger(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to load ledger", slog.Any("error", err))
		os.Exit(1)
	}
	return ledgerApp
}

// initializeRedis returns nil unless the rate limiter is configured to use
// Redis. An unreachable server is logged and the limiter fails open.
func initializeRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Server.RateLimit.Enabled || !strings.EqualFold(cfg.Server.RateLimit.Backend, mw.RateLimitBackendRedis) {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed, rate limiting will fail open until it recovers", "addr", cfg.Redis.Addr, slog.Any("error", err))
	} else {
		logger.Info("Connected to Redis", "addr", cfg.Redis.Addr)
	}
	return client
}

func closeRedis(client *redis.Client, logger *slog.Logger) {
	if client == nil {
		return
	}
	logger.Info("Closing Redis client...")
	if err := client.Close(); err != nil {
		logger.Warn("Failed to close Redis client", slog.Any("error", err))
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}
