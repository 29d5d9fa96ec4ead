package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "PENDING"
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusFailed        PaymentStatus = "FAILED"
	PaymentStatusWaived        PaymentStatus = "WAIVED"
	PaymentStatusRefunded      PaymentStatus = "REFUNDED"
	PaymentStatusPartialRefund PaymentStatus = "PARTIAL_REFUND"
)

type Booking struct {
	ID          int32  `json:"id"`
	BookingCode string `json:"booking_code"`
	GuestID     int32  `json:"guest_id"`
	HostID      int32  `json:"host_id"`
	VehicleID   int32  `json:"vehicle_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	// Gateway references captured when the booking was secured. All
	// charges and refunds for this booking run against these.
	CustomerRef      string `json:"customer_ref"`
	PaymentMethodRef string `json:"payment_method_ref"`
	PaymentIntentRef string `json:"payment_intent_ref"`

	PolicyID           *int32        `json:"policy_id,omitempty"`
	TotalAmountCents   int64         `json:"total_amount_cents"`
	RefundedTotalCents int64         `json:"refunded_total_cents"`
	WaivedAmountCents  int64         `json:"waived_amount_cents"`
	WaiveReason        string        `json:"waive_reason"`
	Status             BookingStatus `json:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	CreatedOn          time.Time     `json:"created_on"`
	UpdatedOn          time.Time     `json:"updated_on"`
}

// InsurancePolicy is the coverage attached to a booking. The deductible
// is snapshotted onto a claim at filing time; later policy edits never
// affect an open claim.
type InsurancePolicy struct {
	ID              int32  `json:"id"`
	Name            string `json:"name"`
	DeductibleCents int64  `json:"deductible_cents"`
	CoverageCents   int64  `json:"coverage_cents"`
}
