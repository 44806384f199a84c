package storage

import (
	"bank-ledger/internal/config"
	"bank-ledger/internal/infrastructure/storage/jsonfile"
	"bank-ledger/internal/pkg/apperrors"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("JSON driver", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.StorageConfig{
			Driver:       "JSON",
			CustomerFile: filepath.Join(dir, "customers.json"),
			AccountFile:  filepath.Join(dir, "accounts.json"),
		}

		store, closeFn, err := Open(ctx, cfg, config.DatabaseConfig{}, logger)
		require.NoError(t, err)
		require.NotNil(t, closeFn)
		defer closeFn()

		assert.IsType(t, &jsonfile.Store{}, store)
		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Accounts)
	})

	t.Run("Postgres driver without URL", func(t *testing.T) {
		_, closeFn, err := Open(ctx, config.StorageConfig{Driver: "postgres"}, config.DatabaseConfig{}, logger)
		assert.ErrorContains(t, err, "database URL is empty")
		assert.NotNil(t, closeFn)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, _, err := Open(ctx, config.StorageConfig{Driver: "sqlite"}, config.DatabaseConfig{}, logger)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}
