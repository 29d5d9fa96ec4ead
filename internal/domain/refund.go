package domain

import "time"

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "PENDING"
	RefundStatusApproved  RefundStatus = "APPROVED"
	RefundStatusProcessed RefundStatus = "PROCESSED"
	RefundStatusFailed    RefundStatus = "FAILED"
)

// RefundRequest records money returned to a guest, with the gateway
// reference for audit.
type RefundRequest struct {
	ID              int32        `json:"id"`
	BookingID       int32        `json:"booking_id"`
	AmountCents     int64        `json:"amount_cents"`
	Reason          string       `json:"reason"`
	Status          RefundStatus `json:"status"`
	GatewayRefundID string       `json:"gateway_refund_id"`
	AutoApproved    bool         `json:"auto_approved"`
	CreatedOn       time.Time    `json:"created_on"`
}
