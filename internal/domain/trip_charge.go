package domain

import "time"

type ChargeStatus string

const (
	ChargeStatusPending  ChargeStatus = "PENDING"
	ChargeStatusCharged  ChargeStatus = "CHARGED"
	ChargeStatusFailed   ChargeStatus = "FAILED"
	ChargeStatusWaived   ChargeStatus = "WAIVED"
	ChargeStatusAdjusted ChargeStatus = "ADJUSTED"
	ChargeStatusDisputed ChargeStatus = "DISPUTED"
)

// Chargeable reports whether a charge attempt may run against this status.
func (s ChargeStatus) Chargeable() bool {
	return s == ChargeStatusPending || s == ChargeStatusFailed
}

// TripCharge is a pending or settled post-trip fee (late return,
// cleaning, tolls, damage) assessed against the booking's guest.
type TripCharge struct {
	ID                int32        `json:"id"`
	BookingID         int32        `json:"booking_id"`
	Description       string       `json:"description"`
	TotalChargesCents int64        `json:"total_charges_cents"`
	ChargeStatus      ChargeStatus `json:"charge_status"`
	ChargeAttempts    int32        `json:"charge_attempts"`
	NextRetryAt       *time.Time   `json:"next_retry_at,omitempty"`
	WaivePercentage   int32        `json:"waive_percentage"`
	WaivedAmountCents int64        `json:"waived_amount_cents"`
	WaiveReason       string       `json:"waive_reason"`
	DisputeNotes      string       `json:"dispute_notes"`
	RequiresApproval  bool         `json:"requires_approval"`
	// IdempotencyKey is generated once when the charge row is created
	// and reused on every gateway attempt, so a retry after an
	// ambiguous failure cannot double-charge.
	IdempotencyKey  string     `json:"idempotency_key"`
	GatewayChargeID string     `json:"gateway_charge_id"`
	FailureReason   string     `json:"failure_reason"`
	ChargedAt       *time.Time `json:"charged_at,omitempty"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}
