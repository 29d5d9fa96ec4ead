package service

import (
	"context"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/notify"
	"driveshare-backend/internal/repository"
)

type tripIssueService struct {
	tripIssueRepo repository.TripIssueRepository
	bookingRepo   repository.BookingRepository
	guestRepo     repository.GuestRepository
	claims        ClaimService
	noteRepo      repository.NotificationRepository
	dispatcher    notify.Dispatcher
	// escalationWindow is how long a guest has to acknowledge or
	// dispute a newly reported issue.
	escalationWindow time.Duration
	now              func() time.Time
}

func NewTripIssueService(
	tripIssueRepo repository.TripIssueRepository,
	bookingRepo repository.BookingRepository,
	guestRepo repository.GuestRepository,
	claims ClaimService,
	noteRepo repository.NotificationRepository,
	dispatcher notify.Dispatcher,
	escalationWindow time.Duration,
) TripIssueService {
	return &tripIssueService{
		tripIssueRepo:    tripIssueRepo,
		bookingRepo:      bookingRepo,
		guestRepo:        guestRepo,
		claims:           claims,
		noteRepo:         noteRepo,
		dispatcher:       dispatcher,
		escalationWindow: escalationWindow,
		now:              time.Now,
	}
}

func (s *tripIssueService) ReportIssue(ctx context.Context, bookingID, reporterID int32, reporterRole domain.FilerRole, issueType domain.TripIssueType, severity domain.TripIssueSeverity, description string) (*domain.TripIssue, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if reporterRole.Effective() != domain.FilerRoleFleet && booking.HostID != reporterID {
		return nil, domain.ErrNotBookingParty
	}

	if description == "" {
		return nil, &domain.ValidationError{Field: "description", Message: "description is required"}
	}

	if existing, err := s.tripIssueRepo.GetActiveByBooking(ctx, bookingID); err == nil {
		return nil, &domain.ConflictError{
			Resource: "trip_issue",
			Message:  fmt.Sprintf("an active %s issue already exists for this booking", existing.Type),
		}
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	now := s.now()
	issue := &domain.TripIssue{
		BookingID:          bookingID,
		Type:               issueType,
		Severity:           severity,
		Description:        description,
		Status:             domain.TripIssueStatusOpen,
		HostReportedAt:     now,
		EscalationDeadline: now.Add(s.escalationWindow),
	}
	if err := s.tripIssueRepo.Create(ctx, issue); err != nil {
		return nil, err
	}

	s.notifyGuest(ctx, booking.GuestID, notify.TemplateIssueReported, "Trip issue reported",
		fmt.Sprintf("Your host reported a %s issue on booking %s. Please acknowledge or dispute it before %s.",
			issue.Type, booking.BookingCode, issue.EscalationDeadline.Format(time.RFC1123)),
		map[string]string{"type": "TRIP_ISSUE", "issue_id": fmt.Sprintf("%d", issue.ID)})

	return issue, nil
}

func (s *tripIssueService) Acknowledge(ctx context.Context, issueID, guestID int32) (*domain.TripIssue, error) {
	issue, _, err := s.getForGuest(ctx, issueID, guestID)
	if err != nil {
		return nil, err
	}

	if issue.Status.Terminal() {
		return nil, &domain.ConflictError{Resource: "trip_issue", Message: "issue is already resolved"}
	}
	if !issue.Status.CanTransition(domain.TripIssueStatusAcknowledged) {
		return nil, &domain.InvalidTransitionError{Entity: "trip_issue", From: string(issue.Status), To: string(domain.TripIssueStatusAcknowledged)}
	}

	now := s.now()
	issue.GuestAcknowledgedAt = &now
	issue.Status = domain.TripIssueStatusAcknowledged
	if err := s.tripIssueRepo.Update(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// Dispute marks the issue contested. GuestAcknowledgedAt stays nil (the
// guest did not accept the report), but the DISPUTED status both stops
// the issue from blocking the guest's filings and pauses the
// auto-escalation clock pending human review.
func (s *tripIssueService) Dispute(ctx context.Context, issueID, guestID int32, reason string) (*domain.TripIssue, error) {
	if reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Message: "a dispute reason is required"}
	}

	issue, _, err := s.getForGuest(ctx, issueID, guestID)
	if err != nil {
		return nil, err
	}

	if issue.Status.Terminal() {
		return nil, &domain.ConflictError{Resource: "trip_issue", Message: "issue is already resolved"}
	}
	if !issue.Status.CanTransition(domain.TripIssueStatusDisputed) {
		return nil, &domain.InvalidTransitionError{Entity: "trip_issue", From: string(issue.Status), To: string(domain.TripIssueStatusDisputed)}
	}

	issue.Status = domain.TripIssueStatusDisputed
	issue.DisputeReason = reason
	if err := s.tripIssueRepo.Update(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *tripIssueService) Resolve(ctx context.Context, issueID int32) (*domain.TripIssue, error) {
	issue, err := s.tripIssueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !issue.Status.CanTransition(domain.TripIssueStatusResolved) {
		return nil, &domain.InvalidTransitionError{Entity: "trip_issue", From: string(issue.Status), To: string(domain.TripIssueStatusResolved)}
	}
	issue.Status = domain.TripIssueStatusResolved
	if err := s.tripIssueRepo.Update(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *tripIssueService) EscalateOverdue(ctx context.Context, now time.Time) (int, error) {
	issues, err := s.tripIssueRepo.ListEscalatable(ctx, now)
	if err != nil {
		return 0, err
	}

	escalated := 0
	for i := range issues {
		issue := &issues[i]
		if !issue.EscalationDue(now) {
			continue
		}
		if err := s.escalateOne(ctx, issue); err != nil {
			logger.Error("Failed to escalate trip issue", "issue_id", issue.ID, "booking_id", issue.BookingID, "error", err)
			continue
		}
		escalated++
	}
	return escalated, nil
}

func (s *tripIssueService) escalateOne(ctx context.Context, issue *domain.TripIssue) error {
	booking, err := s.bookingRepo.GetByID(ctx, issue.BookingID)
	if err != nil {
		return err
	}

	issue.Status = domain.TripIssueStatusEscalated
	if err := s.tripIssueRepo.Update(ctx, issue); err != nil {
		return err
	}

	// File the formal claim on the host's behalf. The issue is already
	// terminal at this point, so it no longer blocks the gate; the new
	// host claim takes over as the blocker for duplicate guest filings.
	_, err = s.claims.FileClaim(ctx, FileClaimInput{
		BookingID:    issue.BookingID,
		FilerRole:    domain.FilerRoleHost,
		FilerID:      booking.HostID,
		Type:         issueTypeToClaimType(issue.Type),
		Description:  fmt.Sprintf("Auto-escalated from unacknowledged trip issue #%d (%s, severity %s): %s", issue.ID, issue.Type, issue.Severity, issue.Description),
		IncidentDate: issue.HostReportedAt.Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("issue %d escalated but claim filing failed: %w", issue.ID, err)
	}

	s.notifyGuest(ctx, booking.GuestID, notify.TemplateIssueEscalated, "Trip issue escalated",
		fmt.Sprintf("The unacknowledged %s issue on booking %s has been escalated to a formal claim.", issue.Type, booking.BookingCode),
		map[string]string{"type": "TRIP_ISSUE_ESCALATED", "issue_id": fmt.Sprintf("%d", issue.ID)})

	return nil
}

func (s *tripIssueService) getForGuest(ctx context.Context, issueID, guestID int32) (*domain.TripIssue, *domain.Booking, error) {
	issue, err := s.tripIssueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, nil, err
	}
	booking, err := s.bookingRepo.GetByID(ctx, issue.BookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.GuestID != guestID {
		return nil, nil, domain.ErrNotBookingParty
	}
	return issue, booking, nil
}

func (s *tripIssueService) notifyGuest(ctx context.Context, guestID int32, kind notify.TemplateKind, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		GuestID:    guestID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to persist notification", "guest_id", guestID, "error", err)
	}

	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		logger.Warn("Failed to load guest for notification", "guest_id", guestID, "error", err)
		return
	}
	if err := s.dispatcher.Notify(ctx, notify.Recipient{Email: guest.Email, Name: guest.Name}, kind, map[string]string{"message": message}); err != nil {
		logger.Warn("Notification delivery failed", "guest_id", guestID, "kind", string(kind), "error", err)
	}
}

func issueTypeToClaimType(t domain.TripIssueType) domain.ClaimType {
	switch t {
	case domain.TripIssueTypeDamage:
		return domain.ClaimTypePropertyDamage
	case domain.TripIssueTypeMechanical:
		return domain.ClaimTypeVehicleIssue
	case domain.TripIssueTypeMissingItems, domain.TripIssueTypeCleanliness:
		return domain.ClaimTypePropertyDamage
	default:
		return domain.ClaimTypeOther
	}
}
