package service

import (
	"context"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

// paymentLockService computes payment-instrument lock state on demand
// from live booking and claim rows. There is no lock table and no
// unlock operation: the lock evaporates when its underlying condition
// (active booking, open claim) clears.
type paymentLockService struct {
	bookingRepo repository.BookingRepository
	claimRepo   repository.ClaimRepository
}

func NewPaymentLockService(bookingRepo repository.BookingRepository, claimRepo repository.ClaimRepository) PaymentLockService {
	return &paymentLockService{
		bookingRepo: bookingRepo,
		claimRepo:   claimRepo,
	}
}

func (s *paymentLockService) IsLocked(ctx context.Context, paymentMethodRef string, guestID int32) (domain.PaymentMethodLock, error) {
	var lock domain.PaymentMethodLock

	booking, err := s.bookingRepo.FindActiveByPaymentMethod(ctx, paymentMethodRef)
	if err != nil && err != domain.ErrNotFound {
		return lock, err
	}
	if booking != nil {
		code := booking.BookingCode
		lock.LockedForBooking = &code
	}

	// Claim locks are guest-wide, not instrument-specific: the
	// platform cannot assume which card a future payout or offset will
	// use, so any open claim locks them all.
	openClaim, err := s.claimRepo.HasOpenClaimAgainstGuest(ctx, guestID)
	if err != nil {
		return lock, err
	}
	lock.LockedForClaim = openClaim

	return lock, nil
}
