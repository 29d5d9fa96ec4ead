package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type refundRepository struct {
	db *sql.DB
}

func NewRefundRepository(db *sql.DB) repository.RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, rf *domain.RefundRequest) error {
	query := `INSERT INTO refund_requests (booking_id, amount_cents, reason, status, gateway_refund_id, auto_approved, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, rf.BookingID, rf.AmountCents, rf.Reason, rf.Status, rf.GatewayRefundID, rf.AutoApproved, time.Now()).Scan(&rf.ID)
}

func (r *refundRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.RefundRequest, error) {
	query := `SELECT id, booking_id, amount_cents, reason, status, gateway_refund_id, auto_approved, created_on
	          FROM refund_requests WHERE booking_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refunds []domain.RefundRequest
	for rows.Next() {
		var rf domain.RefundRequest
		if err := rows.Scan(&rf.ID, &rf.BookingID, &rf.AmountCents, &rf.Reason, &rf.Status, &rf.GatewayRefundID, &rf.AutoApproved, &rf.CreatedOn); err != nil {
			return nil, err
		}
		refunds = append(refunds, rf)
	}
	return refunds, rows.Err()
}
