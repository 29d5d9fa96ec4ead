package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "driveshare-backend/internal/api/http"
	"driveshare-backend/internal/config"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/notify"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository/postgres"
	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
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
	logger.Info("Starting DriveShare Claims Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
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
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Payment Gateway
	var gateway payments.Gateway
	if cfg.Gateway.Type == "live" {
		logger.Info("Using live payment gateway", "base_url", cfg.Gateway.BaseURL)
		gateway = payments.NewHTTPGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey)
	} else {
		logger.Info("Using mock payment gateway")
		gateway = payments.NewMockGateway()
	}

	// Initialize Notification Dispatcher
	var dispatcher notify.Dispatcher
	if cfg.SendGrid.APIKey != "" {
		dispatcher = notify.NewSendGridDispatcher(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Info("SendGrid API key not set, email delivery disabled")
		dispatcher = notify.NoopDispatcher{}
	}

	// Initialize Services
	authSvc := service.NewAuthService(store.GuestRepository, tokenManager)
	accounts := service.NewGuestAccountStatusProvider(store.GuestRepository)
	eligibilitySvc := service.NewEligibilityService(
		store.BookingRepository,
		store.ClaimRepository,
		store.TripIssueRepository,
		accounts,
	)
	claimSvc := service.NewClaimService(
		store.ClaimRepository,
		store.BookingRepository,
		store.GuestRepository,
		eligibilitySvc,
		store.NotificationRepository,
		dispatcher,
		cfg.ResponseWindow(),
	)
	tripIssueSvc := service.NewTripIssueService(
		store.TripIssueRepository,
		store.BookingRepository,
		store.GuestRepository,
		claimSvc,
		store.NotificationRepository,
		dispatcher,
		cfg.EscalationWindow(),
	)
	lockSvc := service.NewPaymentLockService(store.BookingRepository, store.ClaimRepository)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)
	bankingSvc := service.NewBankingService(
		store.TripChargeRepository,
		store.BookingRepository,
		store.RefundRepository,
		store.GuestRepository,
		gateway,
		lockSvc,
		store.NotificationRepository,
		dispatcher,
		cfg.ChargeRetryInterval(),
	)

	// Initialize Router
	router := httpapi.NewRouter(tokenManager, authSvc, claimSvc, eligibilitySvc, tripIssueSvc, bankingSvc, lockSvc, notificationSvc)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
