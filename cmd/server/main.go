package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "kuzeybank-backend/internal/api/http"
	"kuzeybank-backend/internal/config"
	"kuzeybank-backend/internal/jobs"
	"kuzeybank-backend/internal/logger"
	"kuzeybank-backend/internal/rates"
	"kuzeybank-backend/internal/repository/postgres"
	"kuzeybank-backend/internal/scheduler"
	"kuzeybank-backend/internal/security"
	"kuzeybank-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting KuzeyBank Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Rates Provider
	ratesProvider := rates.NewHTTPProvider(
		cfg.Rates.TCMBURL,
		cfg.Rates.GoldURL,
		time.Duration(cfg.Rates.CacheTTL)*time.Second,
		time.Duration(cfg.Rates.RequestTimeout)*time.Second,
		nil,
	)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, store.SecurityLogRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository)
	transferSvc := service.NewTransferService(store.AccountRepository, store.LedgerRepository, store.SecurityLogRepository, ratesProvider)
	accountSvc := service.NewAccountService(store.AccountRepository, store.LedgerRepository, store.UserRepository)
	scheduleSvc := service.NewScheduleService(store.ScheduledTransferRepository, store.AccountRepository, store.SecurityLogRepository, transferSvc)
	loanSvc := service.NewLoanService(store.LoanRepository, store.AccountRepository, store.UserRepository, store.LedgerRepository, store.SecurityLogRepository, accountSvc)
	cardSvc := service.NewCardService(store.CardRepository, store.AccountRepository, store.UserRepository, store.SecurityLogRepository)
	adminSvc := service.NewAdminService(
		store.UserRepository,
		store.AccountRepository,
		store.LedgerRepository,
		store.LoanRepository,
		store.CardRepository,
		store.SecurityLogRepository,
		ratesProvider,
		transferSvc,
	)

	// Initialize HTTP API
	handlers := httpapi.NewHandlers(authSvc, userSvc, accountSvc, transferSvc, scheduleSvc, loanSvc, cardSvc, adminSvc, ratesProvider)
	router := httpapi.NewRouter(handlers, tokenManager)

	// Initialize in-process scheduler for due recurring transfers
	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{Schedule: scheduleSvc}, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	cronScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
