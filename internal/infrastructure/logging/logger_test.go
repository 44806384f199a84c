package logging

import (
	"bank-ledger/internal/config"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLoggerTo(t *testing.T) {
	t.Run("JSON encoding filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "warn", Encoding: "json"})

		logger.Info("hidden")
		logger.WarnContext(context.Background(), "Account locked", "accountNumber", "ab12cd34")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "Account locked", record["msg"])
		assert.Equal(t, "ab12cd34", record["accountNumber"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("Text encoding", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "info", Encoding: "text"})

		logger.Info("Ledger loaded", "customers", 2)

		assert.Contains(t, buf.String(), "msg=\"Ledger loaded\"")
		assert.Contains(t, buf.String(), "customers=2")
	})
}
