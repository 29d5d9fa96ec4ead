package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type tripChargeRepository struct {
	db *sql.DB
}

func NewTripChargeRepository(db *sql.DB) repository.TripChargeRepository {
	return &tripChargeRepository{db: db}
}

const tripChargeColumns = `id, booking_id, description, total_charges_cents, charge_status,
	charge_attempts, next_retry_at, waive_percentage, waived_amount_cents, waive_reason,
	dispute_notes, requires_approval, idempotency_key, gateway_charge_id, failure_reason,
	charged_at, created_on, updated_on`

func scanTripCharge(row interface{ Scan(...any) error }, c *domain.TripCharge) error {
	return row.Scan(&c.ID, &c.BookingID, &c.Description, &c.TotalChargesCents, &c.ChargeStatus,
		&c.ChargeAttempts, &c.NextRetryAt, &c.WaivePercentage, &c.WaivedAmountCents, &c.WaiveReason,
		&c.DisputeNotes, &c.RequiresApproval, &c.IdempotencyKey, &c.GatewayChargeID, &c.FailureReason,
		&c.ChargedAt, &c.CreatedOn, &c.UpdatedOn)
}

func (r *tripChargeRepository) Create(ctx context.Context, c *domain.TripCharge) error {
	query := `INSERT INTO trip_charges (booking_id, description, total_charges_cents, charge_status, idempotency_key, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.BookingID, c.Description, c.TotalChargesCents, c.ChargeStatus, c.IdempotencyKey, time.Now(), time.Now()).Scan(&c.ID)
}

func (r *tripChargeRepository) GetByID(ctx context.Context, id int32) (*domain.TripCharge, error) {
	c := &domain.TripCharge{}
	query := `SELECT ` + tripChargeColumns + ` FROM trip_charges WHERE id = $1`
	err := scanTripCharge(r.db.QueryRowContext(ctx, query, id), c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *tripChargeRepository) Update(ctx context.Context, c *domain.TripCharge) error {
	query := `UPDATE trip_charges SET charge_status=$1, charge_attempts=$2, next_retry_at=$3,
	          waive_percentage=$4, waived_amount_cents=$5, waive_reason=$6,
	          dispute_notes=$7, requires_approval=$8, idempotency_key=$9, gateway_charge_id=$10,
	          failure_reason=$11, charged_at=$12, updated_on=$13 WHERE id=$14`
	_, err := r.db.ExecContext(ctx, query, c.ChargeStatus, c.ChargeAttempts, c.NextRetryAt,
		c.WaivePercentage, c.WaivedAmountCents, c.WaiveReason,
		c.DisputeNotes, c.RequiresApproval, c.IdempotencyKey, c.GatewayChargeID,
		c.FailureReason, c.ChargedAt, time.Now(), c.ID)
	return err
}

func (r *tripChargeRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.TripCharge, error) {
	query := `SELECT ` + tripChargeColumns + ` FROM trip_charges WHERE booking_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, bookingID)
}

func (r *tripChargeRepository) ListRetryable(ctx context.Context, now time.Time) ([]domain.TripCharge, error) {
	query := `SELECT ` + tripChargeColumns + ` FROM trip_charges
	          WHERE charge_status = $1 AND next_retry_at IS NOT NULL AND next_retry_at <= $2
	          ORDER BY next_retry_at`
	return r.list(ctx, query, domain.ChargeStatusFailed, now)
}

func (r *tripChargeRepository) list(ctx context.Context, query string, args ...any) ([]domain.TripCharge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []domain.TripCharge
	for rows.Next() {
		var c domain.TripCharge
		if err := scanTripCharge(rows, &c); err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}
