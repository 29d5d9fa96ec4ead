package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscalationDue(t *testing.T) {
	now := time.Now()
	deadline := now.Add(-time.Minute)
	ackAt := now.Add(-2 * time.Hour)

	t.Run("Open And Overdue", func(t *testing.T) {
		issue := &TripIssue{Status: TripIssueStatusOpen, EscalationDeadline: deadline}
		assert.True(t, issue.EscalationDue(now))
	})

	t.Run("Not Yet Due", func(t *testing.T) {
		issue := &TripIssue{Status: TripIssueStatusOpen, EscalationDeadline: now.Add(time.Hour)}
		assert.False(t, issue.EscalationDue(now))
	})

	t.Run("Acknowledged Never Escalates", func(t *testing.T) {
		issue := &TripIssue{Status: TripIssueStatusAcknowledged, GuestAcknowledgedAt: &ackAt, EscalationDeadline: deadline}
		assert.False(t, issue.EscalationDue(now))
	})

	t.Run("Disputed Pauses The Clock", func(t *testing.T) {
		issue := &TripIssue{Status: TripIssueStatusDisputed, EscalationDeadline: deadline}
		assert.False(t, issue.EscalationDue(now))
	})

	t.Run("Deadline Is Lazy", func(t *testing.T) {
		// The same row flips verdicts as the evaluation clock moves; no
		// timer or persisted flag is involved.
		issue := &TripIssue{Status: TripIssueStatusOpen, EscalationDeadline: now.Add(48 * time.Hour)}
		assert.False(t, issue.EscalationDue(now))
		assert.True(t, issue.EscalationDue(now.Add(48*time.Hour+time.Second)))
	})
}

func TestBlocksGuest(t *testing.T) {
	now := time.Now()

	open := &TripIssue{Status: TripIssueStatusOpen, HostReportedAt: now.Add(-time.Hour)}
	assert.True(t, open.BlocksGuest())

	acked := &TripIssue{Status: TripIssueStatusAcknowledged, HostReportedAt: now.Add(-time.Hour), GuestAcknowledgedAt: &now}
	assert.False(t, acked.BlocksGuest())

	disputed := &TripIssue{Status: TripIssueStatusDisputed, HostReportedAt: now.Add(-time.Hour)}
	assert.False(t, disputed.BlocksGuest())

	resolved := &TripIssue{Status: TripIssueStatusResolved, HostReportedAt: now.Add(-time.Hour)}
	assert.False(t, resolved.BlocksGuest())
}

func TestTripIssueTransitions(t *testing.T) {
	assert.True(t, TripIssueStatusOpen.CanTransition(TripIssueStatusAcknowledged))
	assert.True(t, TripIssueStatusOpen.CanTransition(TripIssueStatusDisputed))
	assert.True(t, TripIssueStatusOpen.CanTransition(TripIssueStatusEscalated))
	assert.True(t, TripIssueStatusDisputed.CanTransition(TripIssueStatusResolved))

	assert.False(t, TripIssueStatusAcknowledged.CanTransition(TripIssueStatusDisputed))
	assert.False(t, TripIssueStatusResolved.CanTransition(TripIssueStatusOpen))
	assert.False(t, TripIssueStatusEscalated.CanTransition(TripIssueStatusResolved))
}

func TestChargeStatusChargeable(t *testing.T) {
	assert.True(t, ChargeStatusPending.Chargeable())
	assert.True(t, ChargeStatusFailed.Chargeable())
	assert.False(t, ChargeStatusCharged.Chargeable())
	assert.False(t, ChargeStatusWaived.Chargeable())
	assert.False(t, ChargeStatusAdjusted.Chargeable())
	assert.False(t, ChargeStatusDisputed.Chargeable())
}
