package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signup-funnel-backend/config"
	_ "signup-funnel-backend/docs" // Important for Swagger
	v1 "signup-funnel-backend/internal/delivery/http/v1"
	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/internal/repository/cache"
	"signup-funnel-backend/internal/repository/memory"
	"signup-funnel-backend/internal/repository/postgres"
	"signup-funnel-backend/internal/usecase"
	"signup-funnel-backend/pkg/database"
	"signup-funnel-backend/pkg/email"
	"signup-funnel-backend/pkg/logger"
	"signup-funnel-backend/pkg/redis"
	"signup-funnel-backend/pkg/security"
	"signup-funnel-backend/pkg/validation"
)

// @title           Signup Funnel API
// @version         1.0
// @description     Landing page signup, top-up calculator and operator export.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting signup funnel backend", "port", cfg.Port)

	secLogger := security.DefaultLogger()
	defer secLogger.Sync()

	healthChecks := map[string]usecase.HealthCheck{}

	// 3. Setup Storage
	var signupRepo domain.SignupRepository
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(context.Background(), cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		signupRepo = postgres.NewSignupRepository(dbPool)
		healthChecks["database"] = dbPool.Ping

		if cfg.SecurityLogToDB {
			secLogger.SetPersistFunc(security.NewEventRepository(dbPool).PersistEvent)
		}
	} else {
		signupRepo = memory.NewSignupRepository(memory.DefaultCapacity)
	}

	// 4. Setup Redis (dedupe + rate limiting)
	var guard domain.SubmissionGuard = cache.NoopGuard{}
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, continuing without it", "error", err)
		}
	} else {
		defer redis.Close()
		guard = cache.NewSubmissionGuard(redis.Client(), cache.DefaultGuardPrefix, cfg.SignupDedupeWindow)
		healthChecks["redis"] = redis.HealthCheck
	}

	// 5. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - signup notifications are disabled")
	}

	// 6. Setup UseCases
	signupUC := usecase.NewSignupUsecase(signupRepo, guard, emailService, validation.New())
	topUpUC := usecase.NewTopUpUsecase(cfg.TopUpBonusPercentage)
	healthUC := usecase.NewHealthUsecase(healthChecks)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		SignupUC: signupUC,
		TopUpUC:  topUpUC,
		HealthUC: healthUC,
		Config:   cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
