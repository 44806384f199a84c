package api

import (
	"bank-ledger/internal/api/handler/dto"
	"bank-ledger/internal/config"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/infrastructure/storage/jsonfile"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	store := jsonfile.NewStore(filepath.Join(dir, "customers.json"), filepath.Join(dir, "accounts.json"), logger)

	numbers := []string{"aaaa0001", "bbbb0002", "cccc0003"}
	next := 0
	svc, err := ledger.NewLedgerService(context.Background(), store, nil, logger,
		ledger.WithIDGenerator(func() string {
			n := numbers[next%len(numbers)]
			next++
			return n
		}))
	require.NoError(t, err)

	srv := httptest.NewServer(SetupRouter(svc, cfg, nil, logger))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, &config.Config{Metrics: config.MetricsConfig{Path: "/metrics"}})

	resp, body := do(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = do(t, srv, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "bank_ledger_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Auth: config.AuthConfig{Enabled: true, JWTSecret: "router-secret"}}}
	srv := newTestServer(t, cfg)

	resp, _ := do(t, srv, http.MethodGet, "/accounts", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPost, "/auth/token", `{"username":"teller"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(body, &token))

	resp, _ = do(t, srv, http.MethodGet, "/accounts", "", token.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/interest/apply", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLedgerWorkflow(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	resp, _ := do(t, srv, http.MethodPost, "/customers", `{"customerId":"C001","name":"Alice","address":"Wonderland"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/customers", `{"customerId":"C001","name":"Alice again"}`, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPost, "/accounts", `{"customerId":"C001","type":"savings","initialBalance":"100","password":"pw12"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var savings dto.AccountResponse
	require.NoError(t, json.Unmarshal(body, &savings))
	assert.Equal(t, "aaaa0001", savings.AccountNumber)

	resp, body = do(t, srv, http.MethodPost, "/accounts", `{"customerId":"C001","type":"checking","password":"pw34","overdraftLimit":"20"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	t.Run("Wrong password reports remaining attempts", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/accounts/aaaa0001/withdraw", `{"amount":"30","password":"nope"}`, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var errResp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &errResp))
		require.NotNil(t, errResp.Error.RemainingAttempts)
		assert.Equal(t, 2, *errResp.Error.RemainingAttempts)
	})

	t.Run("Correct password withdraws and resets attempts", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/accounts/aaaa0001/withdraw", `{"amount":"30","password":"pw12"}`, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var acc dto.AccountResponse
		require.NoError(t, json.Unmarshal(body, &acc))
		assert.Equal(t, "70.00", acc.Balance)
		assert.Zero(t, acc.FailedAttempts)
	})

	t.Run("Overdraft on checking", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/transfers", `{"fromAccount":"bbbb0002","toAccount":"aaaa0001","amount":"20","password":"pw34"}`, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		resp, _ = do(t, srv, http.MethodPost, "/transfers", `{"fromAccount":"bbbb0002","toAccount":"aaaa0001","amount":"0.01","password":"pw34"}`, "")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("Interest", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/interest/apply", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"accountsCredited":1}`, string(body))

		_, body = do(t, srv, http.MethodGet, "/accounts/aaaa0001", "", "")
		var acc dto.AccountResponse
		require.NoError(t, json.Unmarshal(body, &acc))
		assert.Equal(t, "90.90", acc.Balance)
	})

	t.Run("Removal needs both confirmations", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodDelete, "/customers/C001", "", "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp, _ = do(t, srv, http.MethodDelete, "/customers/C001", `{"closeAccounts":true,"confirmation":"yes"}`, "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp, _ = do(t, srv, http.MethodGet, "/customers/C001/accounts", "", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = do(t, srv, http.MethodDelete, "/customers/C001", `{"closeAccounts":true,"confirmation":"CONFIRM"}`, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = do(t, srv, http.MethodGet, "/accounts/aaaa0001", "", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
