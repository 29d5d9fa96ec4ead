package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

type tripIssueFixture struct {
	tripIssueRepo *MockTripIssueRepo
	bookingRepo   *MockBookingRepo
	guestRepo     *MockGuestRepo
	claimRepo     *MockClaimRepo
	noteRepo      *MockNotificationRepo
	dispatcher    *MockDispatcher
	svc           service.TripIssueService
}

func newTripIssueFixture(window time.Duration) *tripIssueFixture {
	f := &tripIssueFixture{
		tripIssueRepo: new(MockTripIssueRepo),
		bookingRepo:   new(MockBookingRepo),
		guestRepo:     new(MockGuestRepo),
		claimRepo:     new(MockClaimRepo),
		noteRepo:      new(MockNotificationRepo),
		dispatcher:    new(MockDispatcher),
	}
	eligibility := service.NewEligibilityService(f.bookingRepo, f.claimRepo, f.tripIssueRepo, service.NewGuestAccountStatusProvider(f.guestRepo))
	claims := service.NewClaimService(f.claimRepo, f.bookingRepo, f.guestRepo, eligibility, f.noteRepo, f.dispatcher, 72*time.Hour)
	f.svc = service.NewTripIssueService(f.tripIssueRepo, f.bookingRepo, f.guestRepo, claims, f.noteRepo, f.dispatcher, window)
	return f
}

func (f *tripIssueFixture) expectNotify() {
	f.noteRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)
	f.guestRepo.On("GetByID", mock.Anything, int32(10)).Return(&domain.Guest{ID: 10, Email: "guest@test.com", AccountStatus: domain.AccountStatusActive}, nil)
	f.dispatcher.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestReportIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newTripIssueFixture(48 * time.Hour)
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, BookingCode: "BK-100", GuestID: 10, HostID: 20}, nil)
		f.tripIssueRepo.On("GetActiveByBooking", ctx, int32(1)).Return(nil, domain.ErrNotFound)
		f.tripIssueRepo.On("Create", ctx, mock.AnythingOfType("*domain.TripIssue")).Return(nil)
		f.expectNotify()

		before := time.Now()
		issue, err := f.svc.ReportIssue(ctx, 1, 20, domain.FilerRoleHost, domain.TripIssueTypeDamage, domain.TripIssueSeverityHigh, "Deep scratch on the rear door")
		assert.NoError(t, err)
		assert.Equal(t, domain.TripIssueStatusOpen, issue.Status)
		assert.WithinDuration(t, before.Add(48*time.Hour), issue.EscalationDeadline, 5*time.Second)
		assert.Nil(t, issue.GuestAcknowledgedAt)
	})

	t.Run("Reporter Is Not The Host", func(t *testing.T) {
		f := newTripIssueFixture(48 * time.Hour)
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, GuestID: 10, HostID: 20}, nil)

		// A stranger opening issues would block the guest's own
		// filings and, unacknowledged, auto-escalate into a claim.
		_, err := f.svc.ReportIssue(ctx, 1, 99, domain.FilerRoleHost, domain.TripIssueTypeDamage, domain.TripIssueSeverityHigh, "fabricated damage")
		assert.ErrorIs(t, err, domain.ErrNotBookingParty)
		f.tripIssueRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Fleet Can Report For Any Booking", func(t *testing.T) {
		f := newTripIssueFixture(48 * time.Hour)
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, GuestID: 10, HostID: 20}, nil)
		f.tripIssueRepo.On("GetActiveByBooking", ctx, int32(1)).Return(nil, domain.ErrNotFound)
		f.tripIssueRepo.On("Create", ctx, mock.AnythingOfType("*domain.TripIssue")).Return(nil)
		f.expectNotify()

		_, err := f.svc.ReportIssue(ctx, 1, 1, domain.FilerRoleFleet, domain.TripIssueTypeDamage, domain.TripIssueSeverityHigh, "Damage found at depot inspection")
		assert.NoError(t, err)
	})

	t.Run("Duplicate Active Issue", func(t *testing.T) {
		f := newTripIssueFixture(48 * time.Hour)
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, GuestID: 10, HostID: 20}, nil)
		f.tripIssueRepo.On("GetActiveByBooking", ctx, int32(1)).Return(&domain.TripIssue{ID: 5, Type: domain.TripIssueTypeCleanliness, Status: domain.TripIssueStatusOpen}, nil)

		_, err := f.svc.ReportIssue(ctx, 1, 20, domain.FilerRoleHost, domain.TripIssueTypeDamage, domain.TripIssueSeverityLow, "another issue")
		var cErr *domain.ConflictError
		assert.ErrorAs(t, err, &cErr)
	})
}

func TestAcknowledge(t *testing.T) {
	f := newTripIssueFixture(48 * time.Hour)
	ctx := context.Background()

	issue := &domain.TripIssue{ID: 5, BookingID: 1, Status: domain.TripIssueStatusOpen, HostReportedAt: time.Now().Add(-time.Hour)}
	f.tripIssueRepo.On("GetByID", ctx, int32(5)).Return(issue, nil)
	f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, GuestID: 10}, nil)
	f.tripIssueRepo.On("Update", ctx, mock.AnythingOfType("*domain.TripIssue")).Return(nil)

	res, err := f.svc.Acknowledge(ctx, 5, 10)
	assert.NoError(t, err)
	assert.Equal(t, domain.TripIssueStatusAcknowledged, res.Status)
	assert.NotNil(t, res.GuestAcknowledgedAt)
	assert.False(t, res.BlocksGuest())
}

func TestDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("Pauses Escalation Without Acknowledging", func(t *testing.T) {
		f := newTripIssueFixture(48 * time.Hour)
		issue := &domain.TripIssue{
			ID:                 5,
			BookingID:          1,
			Status:             domain.TripIssueStatusOpen,
			HostReportedAt:     time.Now().Add(-time.Hour),
			EscalationDeadline: time.Now().Add(-time.Minute),
		}
		f.tripIssueRepo.On("GetByID", ctx, int32(5)).Return(issue, nil)
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, GuestID: 10}, nil)
		f.tripIssueRepo.On("Update", ctx, mock.AnythingOfType("*domain.TripIssue")).Return(nil)

		res, err := f.svc.Dispute(ctx, 5, 10, "the scratch predates my trip")
		assert.NoError(t, err)
		assert.Equal(t, domain.TripIssueStatusDisputed, res.Status)
		assert.Nil(t, res.GuestAcknowledgedAt)
		assert.False(t, res.BlocksGuest())
		assert.False(t, res.EscalationDue(time.Now()))
	})

	t.Run("Requires Reason", func(t *testing.T) {
		f := newTripIssueFixture(48 * time.Hour)
		_, err := f.svc.Dispute(ctx, 5, 10, "")
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("Wrong Guest", func(t *testing.T) {
		f := newTripIssueFixture(48 * time.Hour)
		f.tripIssueRepo.On("GetByID", ctx, int32(5)).Return(&domain.TripIssue{ID: 5, BookingID: 1, Status: domain.TripIssueStatusOpen}, nil)
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, GuestID: 10}, nil)

		_, err := f.svc.Dispute(ctx, 5, 99, "not mine")
		assert.ErrorIs(t, err, domain.ErrNotBookingParty)
	})
}

func TestEscalateOverdue(t *testing.T) {
	f := newTripIssueFixture(48 * time.Hour)
	ctx := context.Background()

	reportedAt := time.Now().Add(-49 * time.Hour)
	now := time.Now()
	policyID := int32(7)
	booking := &domain.Booking{ID: 1, BookingCode: "BK-100", GuestID: 10, HostID: 20, PolicyID: &policyID}

	overdue := domain.TripIssue{
		ID:                 5,
		BookingID:          1,
		Type:               domain.TripIssueTypeDamage,
		Severity:           domain.TripIssueSeverityHigh,
		Description:        "Deep scratch on the rear door",
		Status:             domain.TripIssueStatusOpen,
		HostReportedAt:     reportedAt,
		EscalationDeadline: reportedAt.Add(48 * time.Hour),
	}

	f.tripIssueRepo.On("ListEscalatable", ctx, now).Return([]domain.TripIssue{overdue}, nil)
	f.bookingRepo.On("GetByID", ctx, int32(1)).Return(booking, nil)
	f.tripIssueRepo.On("Update", ctx, mock.AnythingOfType("*domain.TripIssue")).Return(nil)
	// The escalation files a host claim, which re-runs the gate.
	f.claimRepo.On("ListByBooking", ctx, int32(1)).Return([]domain.Claim{}, nil)
	f.bookingRepo.On("GetPolicy", ctx, policyID).Return(&domain.InsurancePolicy{ID: policyID, DeductibleCents: 50000}, nil)
	f.claimRepo.On("Create", ctx, mock.AnythingOfType("*domain.Claim")).Return(nil)
	f.expectNotify()

	escalated, err := f.svc.EscalateOverdue(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, 1, escalated)

	f.claimRepo.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(c *domain.Claim) bool {
		return c.FiledByRole == domain.FilerRoleHost &&
			c.Type == domain.ClaimTypePropertyDamage &&
			c.BookingID == 1
	}))
}

func TestEscalateOverdue_SkipsNotYetDue(t *testing.T) {
	f := newTripIssueFixture(48 * time.Hour)
	ctx := context.Background()
	now := time.Now()

	notDue := domain.TripIssue{
		ID:                 6,
		BookingID:          1,
		Status:             domain.TripIssueStatusOpen,
		HostReportedAt:     now.Add(-time.Hour),
		EscalationDeadline: now.Add(47 * time.Hour),
	}
	f.tripIssueRepo.On("ListEscalatable", ctx, now).Return([]domain.TripIssue{notDue}, nil)

	escalated, err := f.svc.EscalateOverdue(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, 0, escalated)
	f.tripIssueRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
