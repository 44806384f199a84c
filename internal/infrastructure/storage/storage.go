package storage

import (
	"bank-ledger/internal/config"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/infrastructure/database/postgres"
	"bank-ledger/internal/infrastructure/storage/jsonfile"
	"bank-ledger/internal/pkg/apperrors"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Open returns the ledger store selected by cfg.Driver. The returned close
// function releases any connections and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig, dbCfg config.DatabaseConfig, logger *slog.Logger) (ledger.Store, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", config.StorageDriverJSON:
		logger.Info("Using JSON file storage", "customerFile", cfg.CustomerFile, "accountFile", cfg.AccountFile)
		return jsonfile.NewStore(cfg.CustomerFile, cfg.AccountFile, logger), noop, nil

	case config.StorageDriverPostgres:
		pool, err := postgres.NewConnectionPool(ctx, dbCfg, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		store := postgres.NewSnapshotStore(pool, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		logger.Info("Using PostgreSQL storage")
		return store, pool.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: unknown storage driver %q", apperrors.ErrInvalidArgument, cfg.Driver)
	}
}
