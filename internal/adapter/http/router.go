package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/caixaflow/backoffice/internal/adapter/http/handler"
	"github.com/caixaflow/backoffice/internal/adapter/http/middleware"
	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/infrastructure/auth"
	"github.com/caixaflow/backoffice/internal/infrastructure/metrics"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler    *handler.LedgerHandler
	SaleHandler      *handler.SaleHandler
	PurchaseHandler  *handler.PurchaseHandler
	IncomeHandler    *handler.IncomeHandler
	ExpenseHandler   *handler.ExpenseHandler
	SettingsHandler  *handler.SettingsHandler
	ProductHandler   *handler.ProductHandler
	VerifyHandler    *handler.VerifyHandler
	AuthHandler      *handler.AuthHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Authentication
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		// Everything below requires an authenticated operator
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			r.Use(middleware.RequireRole(domain.RoleOperator))

			// Ledger
			r.Get("/balance", cfg.LedgerHandler.Balance)
			r.Get("/dashboard", cfg.LedgerHandler.Dashboard)
			r.Post("/adjustments", cfg.LedgerHandler.RecordAdjustment)
			r.Get("/verify", cfg.VerifyHandler.Verify)
			r.Route("/movements", func(r chi.Router) {
				r.Get("/", cfg.LedgerHandler.List)
				r.Get("/{id}", cfg.LedgerHandler.Get)
			})

			// Sales
			r.Route("/sales", func(r chi.Router) {
				r.Post("/", cfg.SaleHandler.Create)
				r.Get("/", cfg.SaleHandler.List)
				r.Get("/{id}", cfg.SaleHandler.Get)
				r.Delete("/{id}", cfg.SaleHandler.Cancel)
			})

			// Purchases
			r.Route("/purchases", func(r chi.Router) {
				r.Post("/", cfg.PurchaseHandler.Create)
				r.Get("/", cfg.PurchaseHandler.List)
				r.Get("/{id}", cfg.PurchaseHandler.Get)
				r.Delete("/{id}", cfg.PurchaseHandler.Delete)
			})

			// Manual financial entries
			r.Route("/incomes", func(r chi.Router) {
				r.Post("/", cfg.IncomeHandler.Create)
				r.Get("/", cfg.IncomeHandler.List)
				r.Get("/{id}", cfg.IncomeHandler.Get)
				r.Put("/{id}", cfg.IncomeHandler.Update)
				r.Delete("/{id}", cfg.IncomeHandler.Delete)
			})

			// Expenses
			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", cfg.ExpenseHandler.Create)
				r.Get("/", cfg.ExpenseHandler.List)
				r.Get("/{id}", cfg.ExpenseHandler.Get)
				r.Put("/{id}", cfg.ExpenseHandler.Update)
				r.Delete("/{id}", cfg.ExpenseHandler.Delete)
			})

			// Products
			r.Route("/products", func(r chi.Router) {
				r.Post("/", cfg.ProductHandler.Create)
				r.Get("/", cfg.ProductHandler.List)
				r.Get("/{id}", cfg.ProductHandler.Get)
			})

			// Settings (updates are admin only)
			r.Get("/settings", cfg.SettingsHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Put("/settings", cfg.SettingsHandler.Update)
			})
		})
	})

	return r
}
