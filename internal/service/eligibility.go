package service

import (
	"context"
	"fmt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

const (
	ActionAcknowledgeTripIssue = "acknowledge_trip_issue"
	ActionRespondToClaim       = "respond_to_claim"
)

type eligibilityService struct {
	bookingRepo   repository.BookingRepository
	claimRepo     repository.ClaimRepository
	tripIssueRepo repository.TripIssueRepository
	accounts      AccountStatusProvider
}

func NewEligibilityService(
	bookingRepo repository.BookingRepository,
	claimRepo repository.ClaimRepository,
	tripIssueRepo repository.TripIssueRepository,
	accounts AccountStatusProvider,
) EligibilityService {
	return &eligibilityService{
		bookingRepo:   bookingRepo,
		claimRepo:     claimRepo,
		tripIssueRepo: tripIssueRepo,
		accounts:      accounts,
	}
}

// CanFileClaim evaluates the gate rules in order. It never mutates
// state; the filing path re-runs it in the same transaction scope that
// inserts the claim.
func (s *eligibilityService) CanFileClaim(ctx context.Context, bookingID int32, filerRole domain.FilerRole, filerID int32) (*Eligibility, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	role := filerRole.Effective()

	// Rule 1: an unacknowledged trip issue blocks the guest until they
	// acknowledge or dispute it.
	if role == domain.FilerRoleGuest {
		issue, err := s.tripIssueRepo.GetActiveByBooking(ctx, bookingID)
		if err != nil && err != domain.ErrNotFound {
			return nil, err
		}
		if issue != nil && issue.BlocksGuest() {
			return &Eligibility{
				Allowed:        false,
				BlockReason:    fmt.Sprintf("your host reported a %s issue on this trip that needs your response", issue.Type),
				ActionRequired: ActionAcknowledgeTripIssue,
			}, nil
		}
	}

	claims, err := s.claimRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Rule 2: a live claim against this filer with no response yet.
	if role == domain.FilerRoleGuest {
		for i := range claims {
			c := &claims[i]
			if !c.Status.Terminal() && !c.FiledByGuest() && c.GuestResponseText == "" {
				return &Eligibility{
					Allowed:        false,
					BlockReason:    "respond to the existing claim on this booking first",
					ActionRequired: ActionRespondToClaim,
				}, nil
			}
		}
	}

	// Rule 3: this filer already has a live claim on this booking.
	for i := range claims {
		c := &claims[i]
		if c.Status.Terminal() || c.FiledByRole.Effective() != role {
			continue
		}
		if role != domain.FilerRoleGuest || (c.FiledByGuestID != nil && *c.FiledByGuestID == filerID) {
			return &Eligibility{
				Allowed:     false,
				BlockReason: "a claim you filed on this booking is still open",
			}, nil
		}
	}

	// Rule 4: suspended or banned accounts cannot file anywhere.
	if role == domain.FilerRoleGuest {
		status, err := s.accounts.GetAccountStatus(ctx, filerID)
		if err != nil {
			return nil, err
		}
		if status == domain.AccountStatusSuspended || status == domain.AccountStatusBanned {
			return &Eligibility{
				Allowed:     false,
				BlockReason: "your account is not in good standing",
			}, nil
		}
	}

	// Rule 5: no policy, no claim.
	if booking.PolicyID == nil {
		return &Eligibility{
			Allowed:     false,
			BlockReason: "no insurance policy is attached to this booking",
		}, nil
	}

	return &Eligibility{Allowed: true}, nil
}

func (s *eligibilityService) ListEligibleBookings(ctx context.Context, guestID int32) ([]BookingEligibility, error) {
	bookings, err := s.bookingRepo.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	result := make([]BookingEligibility, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		elig, err := s.CanFileClaim(ctx, b.ID, domain.FilerRoleGuest, guestID)
		if err != nil {
			return nil, err
		}
		entry := BookingEligibility{
			BookingID:   b.ID,
			BookingCode: b.BookingCode,
			Eligibility: *elig,
		}
		if issue, err := s.tripIssueRepo.GetActiveByBooking(ctx, b.ID); err == nil {
			entry.TripIssueStatus = issue.Status
		} else if err != domain.ErrNotFound {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, nil
}

// guestAccountStatus adapts the guest repository to the account-status
// boundary consumed by the gate.
type guestAccountStatus struct {
	guestRepo repository.GuestRepository
}

func NewGuestAccountStatusProvider(guestRepo repository.GuestRepository) AccountStatusProvider {
	return &guestAccountStatus{guestRepo: guestRepo}
}

func (p *guestAccountStatus) GetAccountStatus(ctx context.Context, guestID int32) (domain.AccountStatus, error) {
	guest, err := p.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return "", err
	}
	return guest.AccountStatus, nil
}
