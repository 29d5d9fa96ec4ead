package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, booking_code, guest_id, host_id, vehicle_id, start_date, end_date,
	customer_ref, payment_method_ref, payment_intent_ref, policy_id,
	total_amount_cents, refunded_total_cents, waived_amount_cents, waive_reason,
	status, payment_status, created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.BookingCode, &b.GuestID, &b.HostID, &b.VehicleID, &b.StartDate, &b.EndDate,
		&b.CustomerRef, &b.PaymentMethodRef, &b.PaymentIntentRef, &b.PolicyID,
		&b.TotalAmountCents, &b.RefundedTotalCents, &b.WaivedAmountCents, &b.WaiveReason,
		&b.Status, &b.PaymentStatus, &b.CreatedOn, &b.UpdatedOn)
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (booking_code, guest_id, host_id, vehicle_id, start_date, end_date,
	          customer_ref, payment_method_ref, payment_intent_ref, policy_id,
	          total_amount_cents, status, payment_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	return r.db.QueryRowContext(ctx, query, b.BookingCode, b.GuestID, b.HostID, b.VehicleID, b.StartDate, b.EndDate,
		b.CustomerRef, b.PaymentMethodRef, b.PaymentIntentRef, b.PolicyID,
		b.TotalAmountCents, b.Status, b.PaymentStatus, time.Now(), time.Now()).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := scanBooking(r.db.QueryRowContext(ctx, query, id), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetPolicy(ctx context.Context, policyID int32) (*domain.InsurancePolicy, error) {
	p := &domain.InsurancePolicy{}
	query := `SELECT id, name, deductible_cents, coverage_cents FROM insurance_policies WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, policyID).Scan(&p.ID, &p.Name, &p.DeductibleCents, &p.CoverageCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE guest_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) FindActiveByPaymentMethod(ctx context.Context, paymentMethodRef string) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_method_ref = $1 AND status = $2 LIMIT 1`
	err := scanBooking(r.db.QueryRowContext(ctx, query, paymentMethodRef, domain.BookingStatusActive), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) UpdatePayment(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET payment_status=$1, refunded_total_cents=$2, waived_amount_cents=$3, waive_reason=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, b.PaymentStatus, b.RefundedTotalCents, b.WaivedAmountCents, b.WaiveReason, time.Now(), b.ID)
	return err
}
