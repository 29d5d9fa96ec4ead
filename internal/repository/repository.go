package repository

import (
	"context"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
)

// ErrDuplicateClaim is returned by ClaimRepository.Create when the
// partial unique index on live (booking_id, filed_by_guest_id) pairs
// rejects the insert. It is the correctness backstop behind the
// eligibility gate under concurrent filings.
var ErrDuplicateClaim = errors.New("a live claim already exists for this booking and filer")

type GuestRepository interface {
	Create(ctx context.Context, guest *domain.Guest) error
	GetByID(ctx context.Context, id int32) (*domain.Guest, error)
	GetByEmail(ctx context.Context, email string) (*domain.Guest, error)
	UpdateAccountStatus(ctx context.Context, id int32, status domain.AccountStatus) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	GetPolicy(ctx context.Context, policyID int32) (*domain.InsurancePolicy, error)
	ListByGuest(ctx context.Context, guestID int32) ([]domain.Booking, error)
	// FindActiveByPaymentMethod returns the ACTIVE booking secured by
	// the given payment instrument, or domain.ErrNotFound.
	FindActiveByPaymentMethod(ctx context.Context, paymentMethodRef string) (*domain.Booking, error)
	UpdatePayment(ctx context.Context, booking *domain.Booking) error
}

type ClaimRepository interface {
	// Create inserts the claim. A unique-constraint violation on the
	// live (booking_id, filed_by_guest_id) pair is returned as
	// ErrDuplicateClaim so the service can map it to NotEligible.
	Create(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, id int32) (*domain.Claim, error)
	Update(ctx context.Context, claim *domain.Claim) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.Claim, error)
	ListForGuest(ctx context.Context, guestID int32) ([]domain.Claim, error)
	// HasOpenClaimAgainstGuest reports whether any non-terminal claim
	// exists against the guest, anywhere in their history.
	HasOpenClaimAgainstGuest(ctx context.Context, guestID int32) (bool, error)
	AddPhoto(ctx context.Context, photo *domain.ClaimPhoto) error
	GetPhotos(ctx context.Context, claimID int32) ([]domain.ClaimPhoto, error)
}

type TripIssueRepository interface {
	Create(ctx context.Context, issue *domain.TripIssue) error
	GetByID(ctx context.Context, id int32) (*domain.TripIssue, error)
	// GetActiveByBooking returns the one non-terminal issue for the
	// booking, or domain.ErrNotFound.
	GetActiveByBooking(ctx context.Context, bookingID int32) (*domain.TripIssue, error)
	Update(ctx context.Context, issue *domain.TripIssue) error
	// ListEscalatable returns OPEN, unacknowledged issues whose
	// escalation deadline is before now.
	ListEscalatable(ctx context.Context, now time.Time) ([]domain.TripIssue, error)
}

type TripChargeRepository interface {
	Create(ctx context.Context, charge *domain.TripCharge) error
	GetByID(ctx context.Context, id int32) (*domain.TripCharge, error)
	Update(ctx context.Context, charge *domain.TripCharge) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.TripCharge, error)
	// ListRetryable returns FAILED charges with next_retry_at <= now.
	ListRetryable(ctx context.Context, now time.Time) ([]domain.TripCharge, error)
}

type RefundRepository interface {
	Create(ctx context.Context, refund *domain.RefundRequest) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.RefundRequest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, guestID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, guestID int32) error
}
