package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/notify"
	"driveshare-backend/internal/repository"
)

const minClaimDescriptionLen = 50

type claimService struct {
	claimRepo   repository.ClaimRepository
	bookingRepo repository.BookingRepository
	guestRepo   repository.GuestRepository
	eligibility EligibilityService
	noteRepo    repository.NotificationRepository
	dispatcher  notify.Dispatcher
	// responseWindow sets guest_response_deadline on claims filed
	// against a guest. Zero disables the deadline.
	responseWindow time.Duration
	now            func() time.Time
}

func NewClaimService(
	claimRepo repository.ClaimRepository,
	bookingRepo repository.BookingRepository,
	guestRepo repository.GuestRepository,
	eligibility EligibilityService,
	noteRepo repository.NotificationRepository,
	dispatcher notify.Dispatcher,
	responseWindow time.Duration,
) ClaimService {
	return &claimService{
		claimRepo:      claimRepo,
		bookingRepo:    bookingRepo,
		guestRepo:      guestRepo,
		eligibility:    eligibility,
		noteRepo:       noteRepo,
		dispatcher:     dispatcher,
		responseWindow: responseWindow,
		now:            time.Now,
	}
}

func (s *claimService) FileClaim(ctx context.Context, in FileClaimInput) (*domain.Claim, error) {
	if !domain.ValidClaimType(in.Type) {
		return nil, &domain.ValidationError{Field: "claim_type", Message: fmt.Sprintf("unknown claim type %q", in.Type)}
	}
	if len(in.Description) < minClaimDescriptionLen {
		return nil, &domain.ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("description must be at least %d characters", minClaimDescriptionLen),
		}
	}
	if in.IncidentDate != "" {
		if _, err := time.Parse("2006-01-02", in.IncidentDate); err != nil {
			return nil, &domain.ValidationError{Field: "incident_date", Message: "incident date must be YYYY-MM-DD"}
		}
	}

	booking, err := s.bookingRepo.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	role := in.FilerRole.Effective()
	if role == domain.FilerRoleGuest && booking.GuestID != in.FilerID {
		return nil, domain.ErrNotBookingParty
	}
	if role == domain.FilerRoleHost && booking.HostID != in.FilerID {
		return nil, domain.ErrNotBookingParty
	}

	// Re-validate eligibility here rather than trusting a result the
	// caller may have cached from the listing endpoint.
	elig, err := s.eligibility.CanFileClaim(ctx, in.BookingID, role, in.FilerID)
	if err != nil {
		return nil, err
	}
	if !elig.Allowed {
		return nil, &domain.NotEligibleError{BlockReason: elig.BlockReason, ActionRequired: elig.ActionRequired}
	}

	claim := &domain.Claim{
		BookingID:    in.BookingID,
		PolicyID:     booking.PolicyID,
		Type:         in.Type,
		Status:       domain.ClaimStatusPending,
		Description:  in.Description,
		IncidentDate: in.IncidentDate,
		FiledByRole:  role,
	}

	// Deductible snapshot from the policy at filing time. Later policy
	// edits never change an open claim's deductible.
	if booking.PolicyID != nil {
		policy, err := s.bookingRepo.GetPolicy(ctx, *booking.PolicyID)
		if err != nil {
			return nil, err
		}
		claim.DeductibleCents = policy.DeductibleCents
	}

	if role == domain.FilerRoleGuest {
		// Guests cannot self-assess damages.
		claim.EstimatedCostCents = 0
		claim.GuestAtFault = false
		claim.FiledByGuestID = &in.FilerID
	} else {
		claim.EstimatedCostCents = in.EstimatedCostCents
		if s.responseWindow > 0 {
			deadline := s.now().Add(s.responseWindow)
			claim.GuestResponseDeadline = &deadline
		}
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		// Two requests racing past the gate resolve here: the partial
		// unique index rejects the second insert.
		if errors.Is(err, repository.ErrDuplicateClaim) {
			return nil, &domain.NotEligibleError{BlockReason: "a claim you filed on this booking is still open"}
		}
		return nil, err
	}

	for _, url := range in.PhotoURLs {
		photo := &domain.ClaimPhoto{ClaimID: claim.ID, URL: url}
		if err := s.claimRepo.AddPhoto(ctx, photo); err != nil {
			logger.Warn("Failed to attach claim photo", "claim_id", claim.ID, "error", err)
		}
	}

	// Counter-party notification is best-effort.
	if role != domain.FilerRoleGuest {
		s.notifyGuest(ctx, booking.GuestID, notify.TemplateClaimFiled, "Claim filed against your trip",
			fmt.Sprintf("A %s claim was filed on booking %s. Please respond.", claim.Type, booking.BookingCode),
			map[string]string{"type": "CLAIM_FILED", "claim_id": fmt.Sprintf("%d", claim.ID)})
	}

	logger.Info("Claim filed", "claim_id", claim.ID, "booking_id", claim.BookingID, "filed_by_role", string(role))
	return claim, nil
}

func (s *claimService) Respond(ctx context.Context, claimID, respondingGuestID int32, responseText string) (*domain.Claim, error) {
	if responseText == "" {
		return nil, &domain.ValidationError{Field: "response_text", Message: "response text is required"}
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookingRepo.GetByID(ctx, claim.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != respondingGuestID {
		return nil, domain.ErrNotBookingParty
	}

	if claim.Status.Terminal() {
		return nil, &domain.ConflictError{Resource: "claim", Message: "claim is already closed"}
	}
	if claim.GuestResponseText != "" {
		return nil, &domain.ConflictError{Resource: "claim", Message: "a response was already recorded"}
	}
	// The stored deadline is authoritative over any client clock.
	if claim.GuestResponseDeadline != nil && s.now().After(*claim.GuestResponseDeadline) {
		return nil, domain.ErrDeadlineExpired
	}
	if !claim.Status.CanTransition(domain.ClaimStatusGuestResponded) {
		return nil, &domain.InvalidTransitionError{Entity: "claim", From: string(claim.Status), To: string(domain.ClaimStatusGuestResponded)}
	}

	now := s.now()
	claim.GuestResponseText = responseText
	claim.GuestResponseDate = &now
	claim.Status = domain.ClaimStatusGuestResponded
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	logger.Info("Guest responded to claim", "claim_id", claim.ID)
	return claim, nil
}

func (s *claimService) StartReview(ctx context.Context, claimID int32) (*domain.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !claim.Status.CanTransition(domain.ClaimStatusUnderReview) {
		return nil, &domain.InvalidTransitionError{Entity: "claim", From: string(claim.Status), To: string(domain.ClaimStatusUnderReview)}
	}
	claim.Status = domain.ClaimStatusUnderReview
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *claimService) Adjudicate(ctx context.Context, claimID int32, decision domain.ClaimStatus, approvedAmountCents *int64, reviewNotes string) (*domain.Claim, error) {
	if decision != domain.ClaimStatusApproved && decision != domain.ClaimStatusDenied {
		return nil, &domain.ValidationError{Field: "decision", Message: "decision must be APPROVED or DENIED"}
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status != domain.ClaimStatusUnderReview && claim.Status != domain.ClaimStatusGuestResponded {
		return nil, &domain.InvalidTransitionError{Entity: "claim", From: string(claim.Status), To: string(decision)}
	}

	if decision == domain.ClaimStatusApproved {
		if approvedAmountCents == nil || *approvedAmountCents < 0 {
			return nil, &domain.ValidationError{Field: "approved_amount", Message: "an approved amount is required"}
		}
		claim.ApprovedAmountCents = approvedAmountCents
	}
	claim.Status = decision
	claim.ReviewNotes = reviewNotes
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	if booking, err := s.bookingRepo.GetByID(ctx, claim.BookingID); err == nil {
		s.notifyGuest(ctx, booking.GuestID, notify.TemplateClaimDecision, "Claim decision",
			fmt.Sprintf("The claim on booking %s was %s.", booking.BookingCode, claim.Status),
			map[string]string{"type": "CLAIM_DECISION", "claim_id": fmt.Sprintf("%d", claim.ID)})
	}

	logger.Info("Claim adjudicated", "claim_id", claim.ID, "decision", string(decision))
	return claim, nil
}

func (s *claimService) MarkPaid(ctx context.Context, claimID int32, payoutReference string) (*domain.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status != domain.ClaimStatusApproved {
		return nil, &domain.InvalidTransitionError{Entity: "claim", From: string(claim.Status), To: string(domain.ClaimStatusPaid)}
	}
	claim.Status = domain.ClaimStatusPaid
	claim.PayoutReference = payoutReference
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}
	logger.Info("Claim paid", "claim_id", claim.ID, "payout_reference", payoutReference)
	return claim, nil
}

func (s *claimService) GetClaim(ctx context.Context, claimID, guestID int32) (*domain.Claim, []domain.ClaimPhoto, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, nil, err
	}
	booking, err := s.bookingRepo.GetByID(ctx, claim.BookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.GuestID != guestID && booking.HostID != guestID {
		// Hide other parties' claims rather than admit they exist.
		return nil, nil, domain.ErrNotFound
	}
	photos, err := s.claimRepo.GetPhotos(ctx, claimID)
	if err != nil {
		return nil, nil, err
	}
	return claim, photos, nil
}

func (s *claimService) ListClaims(ctx context.Context, guestID int32, filter ClaimFilter, status domain.ClaimStatus) ([]domain.Claim, *domain.ClaimSummary, error) {
	claims, err := s.claimRepo.ListForGuest(ctx, guestID)
	if err != nil {
		return nil, nil, err
	}

	summary := &domain.ClaimSummary{}
	var filtered []domain.Claim
	for i := range claims {
		c := &claims[i]
		filedByMe := c.FiledByGuest() && c.FiledByGuestID != nil && *c.FiledByGuestID == guestID

		summary.Total++
		if filedByMe {
			summary.FiledByMe++
		} else {
			summary.AgainstMe++
			if !c.Status.Terminal() && c.GuestResponseText == "" {
				summary.NeedingResponse++
			}
		}
		if c.Status == domain.ClaimStatusUnderReview {
			summary.UnderReview++
		}
		if c.Status.Terminal() {
			summary.Resolved++
		}

		if filter == ClaimFilterFiledByMe && !filedByMe {
			continue
		}
		if filter == ClaimFilterAgainstMe && filedByMe {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		filtered = append(filtered, *c)
	}
	return filtered, summary, nil
}

func (s *claimService) notifyGuest(ctx context.Context, guestID int32, kind notify.TemplateKind, title, message string, attrs map[string]string) {
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
