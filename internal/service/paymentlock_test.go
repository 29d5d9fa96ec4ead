package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

func TestPaymentLock(t *testing.T) {
	ctx := context.Background()

	t.Run("Unlocked", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		claimRepo := new(MockClaimRepo)
		svc := service.NewPaymentLockService(bookingRepo, claimRepo)

		bookingRepo.On("FindActiveByPaymentMethod", ctx, "pm_1").Return(nil, domain.ErrNotFound)
		claimRepo.On("HasOpenClaimAgainstGuest", ctx, int32(10)).Return(false, nil)

		lock, err := svc.IsLocked(ctx, "pm_1", 10)
		assert.NoError(t, err)
		assert.False(t, lock.Locked())
	})

	t.Run("Locked For Active Booking", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		claimRepo := new(MockClaimRepo)
		svc := service.NewPaymentLockService(bookingRepo, claimRepo)

		bookingRepo.On("FindActiveByPaymentMethod", ctx, "pm_1").Return(&domain.Booking{ID: 1, BookingCode: "BK-100", Status: domain.BookingStatusActive}, nil)
		claimRepo.On("HasOpenClaimAgainstGuest", ctx, int32(10)).Return(false, nil)

		lock, err := svc.IsLocked(ctx, "pm_1", 10)
		assert.NoError(t, err)
		assert.True(t, lock.Locked())
		if assert.NotNil(t, lock.LockedForBooking) {
			assert.Equal(t, "BK-100", *lock.LockedForBooking)
		}
	})

	t.Run("Claim Lock Is Guest Wide", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		claimRepo := new(MockClaimRepo)
		svc := service.NewPaymentLockService(bookingRepo, claimRepo)

		// The open claim is on some other booking; the instrument itself
		// has no active booking, but the guest-wide claim lock applies.
		bookingRepo.On("FindActiveByPaymentMethod", ctx, "pm_other").Return(nil, domain.ErrNotFound)
		claimRepo.On("HasOpenClaimAgainstGuest", ctx, int32(10)).Return(true, nil)

		lock, err := svc.IsLocked(ctx, "pm_other", 10)
		assert.NoError(t, err)
		assert.True(t, lock.Locked())
		assert.True(t, lock.LockedForClaim)
		assert.Nil(t, lock.LockedForBooking)
	})
}
