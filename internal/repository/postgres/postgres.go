package postgres

import (
	"database/sql"

	"driveshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.GuestRepository
	repository.BookingRepository
	repository.ClaimRepository
	repository.TripIssueRepository
	repository.TripChargeRepository
	repository.RefundRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		GuestRepository:        NewGuestRepository(db),
		BookingRepository:      NewBookingRepository(db),
		ClaimRepository:        NewClaimRepository(db),
		TripIssueRepository:    NewTripIssueRepository(db),
		TripChargeRepository:   NewTripChargeRepository(db),
		RefundRepository:       NewRefundRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
