package main

import (
	"bank-ledger/internal/config"
	"bank-ledger/internal/infrastructure/logging"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInitializeApp(t *testing.T) {
	cfg, log := initializeApp()

	assert.NotNil(t, cfg, "Config should not be nil")
	assert.NotNil(t, log, "Logger should not be nil")
}

func TestInitializeRedis(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})

	t.Run("Memory backend needs no client", func(t *testing.T) {
		cfg := &config.Config{Server: config.ServerConfig{RateLimit: config.RateLimitConfig{Enabled: true, Backend: "memory"}}}
		assert.Nil(t, initializeRedis(cfg, logger))
	})

	t.Run("Disabled limiter needs no client", func(t *testing.T) {
		cfg := &config.Config{Server: config.ServerConfig{RateLimit: config.RateLimitConfig{Backend: "redis"}}}
		assert.Nil(t, initializeRedis(cfg, logger))
	})

	t.Run("Unreachable server still yields a client", func(t *testing.T) {
		cfg := &config.Config{
			Server: config.ServerConfig{RateLimit: config.RateLimitConfig{Enabled: true, Backend: "redis"}},
			Redis:  config.RedisConfig{Addr: "127.0.0.1:1"},
		}
		client := initializeRedis(cfg, logger)
		assert.NotNil(t, client)
		closeRedis(client, logger)
	})
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	logger := logging.NewLogger(config.LoggerConfig{})
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	defer srv.Close()

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")
}

func TestHandleShutdown(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	go func() {
		shutdownChan <- syscall.SIGINT
	}()

	handleShutdown(srv, shutdownChan, serverErrors, logger)
	assert.True(t, true, "Graceful shutdown should complete without errors")
}
