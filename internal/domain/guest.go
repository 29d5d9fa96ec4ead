package domain

import "time"

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusBanned    AccountStatus = "BANNED"
)

type Guest struct {
	ID            int32         `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	PasswordHash  string        `json:"-"`
	AccountStatus AccountStatus `json:"account_status"`
	// Default gateway references used when a charge does not name an
	// explicit payment method.
	CustomerRef             string    `json:"customer_ref"`
	DefaultPaymentMethodRef string    `json:"default_payment_method_ref"`
	CreatedOn               time.Time `json:"created_on"`
	UpdatedOn               time.Time `json:"updated_on"`
}

// PaymentMethodLock is the derived lock state of a stored payment
// instrument. It is computed from live booking and claim state on every
// read; there is no lock table and no explicit unlock.
type PaymentMethodLock struct {
	// LockedForBooking holds the code of the ACTIVE booking secured by
	// this instrument, or nil.
	LockedForBooking *string `json:"locked_for_booking"`
	// LockedForClaim is guest-wide: any non-terminal claim against the
	// guest locks all of their instruments. Advisory, not DB-enforced.
	LockedForClaim bool `json:"locked_for_claim"`
}

func (l PaymentMethodLock) Locked() bool {
	return l.LockedForBooking != nil || l.LockedForClaim
}
