package api

import (
	"bank-ledger/internal/api/handler"
	mw "bank-ledger/internal/api/middleware"
	"bank-ledger/internal/config"
	"bank-ledger/internal/domain/ledger"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// SetupRouter wires every REST route onto the ledger. redisClient may be nil
// when the rate limiter runs in memory.
func SetupRouter(ledgerService ledger.LedgerService, cfg *config.Config, redisClient redis.Cmdable, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupAuthRoutes(router, cfg, logger)
	setupCustomerRoutes(router, cfg, ledgerService, logger)
	setupAccountRoutes(router, cfg, ledgerService, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, redisClient redis.Cmdable, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiter(cfg.Server.RateLimit, redisClient, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Post("/auth/token", authHandler.GenerateBearerToken)
}

func setupCustomerRoutes(r chi.Router, cfg *config.Config, svc ledger.LedgerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Delete("/", h.RemoveCustomer)
			r.Put("/address", h.UpdateCustomerAddress)
			r.Get("/accounts", h.ListCustomerAccounts)
		})
	})
}

func setupAccountRoutes(r chi.Router, cfg *config.Config, svc ledger.LedgerService, logger *slog.Logger) {
	h := handler.NewAccountHandler(svc, logger)
	auth := mw.AuthMiddleware(cfg.Server.Auth, logger)

	r.Route("/accounts", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.CreateAccount)
		r.Get("/", h.ListAccounts)
		r.Route("/{accountNumber}", func(r chi.Router) {
			r.Get("/", h.GetAccount)
			r.Post("/deposit", h.Deposit)
			r.Post("/withdraw", h.Withdraw)
		})
	})

	r.With(auth).Post("/transfers", h.Transfer)
	r.With(auth).Post("/interest/apply", h.ApplyInterest)
}
