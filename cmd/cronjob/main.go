package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"driveshare-backend/internal/config"
	"driveshare-backend/internal/jobs"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/notify"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository/postgres"
	"driveshare-backend/internal/scheduler"
	"driveshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific sweep once and exit (e.g., 'escalate-trip-issues', 'retry-failed-charges', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DriveShare Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Payment Gateway
	var gateway payments.Gateway
	if cfg.Gateway.Type == "live" {
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

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(tripIssueSvc, bankingSvc, cfg)

	// Handle run-once mode
	if *runOnce != "" {
		runSingleJob(jobRunner, *runOnce)
		return
	}

	// Start scheduler
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	logger.Info("Cronjob runner started, waiting for scheduled sweeps...")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("Received shutdown signal", "signal", sig)
	sched.Stop()
	logger.Info("Cronjob runner stopped")
}

func runSingleJob(jobRunner *jobs.JobRunner, jobName string) {
	logger.Info("Running single sweep", "job", jobName)

	switch jobName {
	case "escalate-trip-issues":
		jobRunner.EscalateOverdueTripIssues()
	case "retry-failed-charges":
		jobRunner.RetryFailedCharges()
	case "all":
		jobRunner.RunAllSweeps()
	default:
		logger.Error("Unknown job name", "job", jobName)
		log.Fatalf("Unknown job name: %s (valid: escalate-trip-issues, retry-failed-charges, all)", jobName)
	}

	logger.Info("Single sweep completed", "job", jobName)
}
