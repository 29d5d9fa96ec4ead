package jobs

import (
	"driveshare-backend/internal/config"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/service"
)

// JobRunner coordinates all scheduled sweeps
type JobRunner struct {
	tripIssues service.TripIssueService
	banking    service.BankingService
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(tripIssues service.TripIssueService, banking service.BankingService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		tripIssues: tripIssues,
		banking:    banking,
		config:     cfg,
	}
}

// Config exposes the runner's configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllSweeps runs every sweep once (for manual execution)
func (jr *JobRunner) RunAllSweeps() {
	jr.EscalateOverdueTripIssues()
	jr.RetryFailedCharges()
}
