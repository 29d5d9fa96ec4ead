// Package payments defines the contract with the external payment
// gateway. Card tokenization and 3-D-Secure live on the gateway side;
// the engine only runs off-session charges and refunds against
// previously captured references.
package payments

import "context"

type ChargeStatus string

const (
	ChargeSucceeded ChargeStatus = "succeeded"
	ChargeFailed    ChargeStatus = "failed"
)

type ChargeRequest struct {
	CustomerRef      string
	PaymentMethodRef string
	AmountCents      int64
	Description      string
	// IdempotencyKey must be stable across retries of the same logical
	// charge. The gateway guarantees at most one charge per key.
	IdempotencyKey string
	Metadata       map[string]string
}

type ChargeResult struct {
	Status          ChargeStatus
	GatewayChargeID string
	AmountCents     int64
	// FailureReason is set on a decline. A decline is a normal
	// outcome, not a transport error.
	FailureReason string
}

type RefundRequest struct {
	PaymentIntentRef string
	AmountCents      int64
	Reason           string
	IdempotencyKey   string
}

type RefundResult struct {
	GatewayRefundID string
	AmountCents     int64
}

// Gateway is implemented by the payment provider client. Charge returns
// an error only on transport/gateway faults; card declines come back in
// the result with Status ChargeFailed.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}
