package jobs

import (
	"context"
	"time"

	"driveshare-backend/internal/logger"
)

// EscalateOverdueTripIssues converts trip issues whose acknowledgment
// deadline has passed into formal claims. Deadlines are wall-clock
// columns, so a sweep that missed runs while the process was down
// simply catches up on the next tick.
func (jr *JobRunner) EscalateOverdueTripIssues() {
	jr.runWithRecovery("EscalateOverdueTripIssues", func() {
		ctx := context.Background()

		escalated, err := jr.tripIssues.EscalateOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to escalate overdue trip issues", "error", err)
			return
		}
		if escalated > 0 {
			logger.Info("Escalated overdue trip issues", "count", escalated)
		}
	})
}

// RetryFailedCharges re-attempts failed trip charges whose retry time
// has arrived. Each attempt reuses the charge's idempotency key, so a
// retry can never double-charge.
func (jr *JobRunner) RetryFailedCharges() {
	jr.runWithRecovery("RetryFailedCharges", func() {
		ctx := context.Background()

		attempted, err := jr.banking.RetryDueCharges(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to run charge retry sweep", "error", err)
			return
		}
		if attempted > 0 {
			logger.Info("Retried failed trip charges", "count", attempted)
		}
	})
}
