package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/accounts/{accountNumber}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Post("/accounts/{accountNumber}/withdraw", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	for _, number := range []string{"ab12cd34", "ef56ab78"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/"+number, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/accounts/ab12cd34/withdraw", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expectedTotal := `
		# HELP bank_ledger_http_requests_total Total number of HTTP requests by route and status code.
		# TYPE bank_ledger_http_requests_total counter
		bank_ledger_http_requests_total{method="GET",route="/accounts/{accountNumber}",status_code="200"} 2
		bank_ledger_http_requests_total{method="POST",route="/accounts/{accountNumber}/withdraw",status_code="401"} 1
	`
	if err := testutil.CollectAndCompare(httpRequestsTotal, strings.NewReader(expectedTotal)); err != nil {
		t.Errorf("unexpected metrics for bank_ledger_http_requests_total: %v", err)
	}
	assert.Equal(t, 2, testutil.CollectAndCount(httpRequestDuration))
}
