package postgres

import (
	"bank-ledger/internal/config"
	"bank-ledger/internal/pkg/apperrors"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName = "bank-ledger"

	defaultMaxConns          int32 = 4
	defaultMaxConnIdleTime         = 5 * time.Minute
	defaultHealthCheckPeriod       = time.Minute
	defaultPingTimeout             = 5 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

// NewConnectionPool opens the pool backing the snapshot store and checks it
// with a ping. Connection failures are persistence errors.
func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger = logger.With("component", "PostgresConnection")
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: database URL is empty in configuration", apperrors.ErrInvalidArgument)
	}

	poolConfig, err := configurePool(cfg)
	if err != nil {
		return nil, err
	}

	host, database := poolConfig.ConnConfig.Host, poolConfig.ConnConfig.Database
	logger.InfoContext(ctx, "Connecting to ledger database", "host", host, "db", database, "maxConns", poolConfig.MaxConns)
	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err, "unable to create connection pool")
	}

	if err := verifyConnection(ctx, dbpool, pingTimeout(cfg), logger); err != nil {
		dbpool.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "Ledger database ready", "host", host, "db", database)
	return dbpool, nil
}

func configurePool(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse database config from URL: %w", apperrors.ErrInvalidArgument, err)
	}

	poolConfig.MaxConns = orDefault(cfg.MaxConns, defaultMaxConns)
	poolConfig.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, defaultMaxConnIdleTime)
	poolConfig.HealthCheckPeriod = orDefault(cfg.HealthCheckPeriod, defaultHealthCheckPeriod)
	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	return poolConfig, nil
}

func verifyConnection(ctx context.Context, db pinger, timeout time.Duration, logger *slog.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.Ping(pingCtx); err != nil {
		logger.ErrorContext(ctx, "Failed to ping ledger database", slog.Any("error", err), "timeout", timeout)
		return apperrors.WrapDatabaseError(err, "failed to ping database on connect")
	}

	return nil
}

func pingTimeout(cfg config.DatabaseConfig) time.Duration {
	return orDefault(cfg.PingTimeout, defaultPingTimeout)
}

func orDefault[T int32 | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
