package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveLogged(t *testing.T, status int, req *http.Request) map[string]interface{} {
	t.Helper()
	logBuffer := new(bytes.Buffer)
	logger := slog.New(slog.NewJSONHandler(logBuffer, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("body"))
	})
	StructuredLogger(logger)(next).ServeHTTP(httptest.NewRecorder(), req)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(logBuffer.Bytes(), &logEntry), "Failed to unmarshal log output")
	return logEntry
}

func TestStructuredLogger(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts/ab12cd34?verbose=1", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-123"))

	logEntry := serveLogged(t, http.StatusAccepted, req)

	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "Served request", logEntry["msg"])
	assert.Equal(t, "HTTP", logEntry["component"])
	assert.Equal(t, http.MethodGet, logEntry["method"])
	assert.Equal(t, "/accounts/ab12cd34", logEntry["path"])
	assert.Equal(t, "192.0.2.1:12345", logEntry["remote_addr"])
	assert.Equal(t, float64(http.StatusAccepted), logEntry["status"])
	assert.Equal(t, float64(len("body")), logEntry["bytes_written"])
	assert.Equal(t, "req-123", logEntry["request_id"])

	_, ok := logEntry["latency_ms"].(float64)
	assert.True(t, ok, "Latency should be a float64")
}

func TestStructuredLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusUnauthorized, "WARN"},
		{http.StatusLocked, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			logEntry := serveLogged(t, tt.status, httptest.NewRequest(http.MethodPost, "/transfers", nil))
			assert.Equal(t, tt.level, logEntry["level"])
			assert.Equal(t, "", logEntry["request_id"], "request_id should be empty when not set")
		})
	}
}
