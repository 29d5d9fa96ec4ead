package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDeadlineExpired = errors.New("response deadline has passed")
	ErrNotBookingParty = errors.New("caller is not a party to this booking")
)

// ValidationError reports malformed input. Surfaced field-level to the
// caller, never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotEligibleError reports a business-rule gate failure, with an
// optional machine-readable hint for how the caller can clear the block.
type NotEligibleError struct {
	BlockReason    string
	ActionRequired string
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("not eligible: %s", e.BlockReason)
}

// ConflictError reports a concurrent mutation that raced past a gate,
// e.g. a duplicate claim insert or a double charge attempt.
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Message)
}

// InvalidTransitionError reports an illegal state-machine move.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %s to %s", e.Entity, e.From, e.To)
}

// GatewayError wraps a payment-gateway failure. Declined cards are a
// normal outcome (Retryable=true, recorded on the charge row); only
// hard gateway faults propagate as this error from the processor.
type GatewayError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
