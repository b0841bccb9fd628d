package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/caixaflow/backoffice/internal/adapter/http"
	"github.com/caixaflow/backoffice/internal/adapter/http/handler"
	"github.com/caixaflow/backoffice/internal/adapter/http/middleware"
	postgresRepo "github.com/caixaflow/backoffice/internal/adapter/repository/postgres"
	redisRepo "github.com/caixaflow/backoffice/internal/adapter/repository/redis"
	"github.com/caixaflow/backoffice/internal/infrastructure/auth"
	"github.com/caixaflow/backoffice/internal/infrastructure/config"
	"github.com/caixaflow/backoffice/internal/infrastructure/logger"
	"github.com/caixaflow/backoffice/internal/infrastructure/metrics"
	"github.com/caixaflow/backoffice/internal/infrastructure/postgres"
	"github.com/caixaflow/backoffice/internal/infrastructure/redis"
	"github.com/caixaflow/backoffice/internal/usecase"
)

const migrationsPath = "internal/infrastructure/postgres/migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	settingsRepo := postgresRepo.NewSettingsRepository(pool)
	productRepo := postgresRepo.NewProductRepository(pool)
	saleRepo := postgresRepo.NewSaleRepository(pool)
	purchaseRepo := postgresRepo.NewPurchaseRepository(pool)
	incomeRepo := postgresRepo.NewIncomeRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Shared infrastructure
	appMetrics := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			rateLimiter.Reset()
		}
	}()

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, retrier, movementRepo, settingsRepo, appMetrics)
	saleUC := usecase.NewSaleUseCase(txManager, retrier, saleRepo, productRepo, ledgerUC, idGen)
	purchaseUC := usecase.NewPurchaseUseCase(txManager, retrier, purchaseRepo, productRepo, ledgerUC, idGen)
	incomeUC := usecase.NewIncomeUseCase(txManager, retrier, incomeRepo, movementRepo, ledgerUC, idGen)
	expenseUC := usecase.NewExpenseUseCase(txManager, retrier, expenseRepo, movementRepo, ledgerUC, idGen)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo)
	verifyUC := usecase.NewVerifyUseCase(movementRepo, settingsRepo)
	productUC := usecase.NewProductUseCase(productRepo, idGen)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		SaleHandler:      handler.NewSaleHandler(saleUC, appMetrics),
		PurchaseHandler:  handler.NewPurchaseHandler(purchaseUC, appMetrics),
		IncomeHandler:    handler.NewIncomeHandler(incomeUC, appMetrics),
		ExpenseHandler:   handler.NewExpenseHandler(expenseUC, appMetrics),
		SettingsHandler:  handler.NewSettingsHandler(settingsUC),
		VerifyHandler:    handler.NewVerifyHandler(verifyUC),
		ProductHandler:   handler.NewProductHandler(productUC),
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager, appMetrics),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		Metrics:          appMetrics,
		Logger:           appLogger,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
