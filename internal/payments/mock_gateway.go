package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockGateway is an in-memory gateway for dev and tests. It honors
// idempotency keys the way the real provider does: repeating a key
// replays the recorded result instead of creating a second charge.
type MockGateway struct {
	mu         sync.Mutex
	chargesBy  map[string]*ChargeResult // idempotency key -> result
	refundsBy  map[string]*RefundResult
	declineAll bool
	failAll    bool
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		chargesBy: make(map[string]*ChargeResult),
		refundsBy: make(map[string]*RefundResult),
	}
}

// DeclineAll makes every new charge come back declined.
func (g *MockGateway) DeclineAll(decline bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declineAll = decline
}

// FailAll makes every call return a transport error, simulating an
// unreachable gateway.
func (g *MockGateway) FailAll(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failAll = fail
}

func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failAll {
		return nil, fmt.Errorf("mock gateway unreachable")
	}
	if req.IdempotencyKey != "" {
		if prev, ok := g.chargesBy[req.IdempotencyKey]; ok {
			return prev, nil
		}
	}

	result := &ChargeResult{AmountCents: req.AmountCents}
	if g.declineAll {
		result.Status = ChargeFailed
		result.FailureReason = "card_declined"
	} else {
		result.Status = ChargeSucceeded
		result.GatewayChargeID = "ch_" + uuid.NewString()
	}
	if req.IdempotencyKey != "" {
		g.chargesBy[req.IdempotencyKey] = result
	}
	return result, nil
}

func (g *MockGateway) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failAll {
		return nil, fmt.Errorf("mock gateway unreachable")
	}
	if req.IdempotencyKey != "" {
		if prev, ok := g.refundsBy[req.IdempotencyKey]; ok {
			return prev, nil
		}
	}

	result := &RefundResult{
		GatewayRefundID: "re_" + uuid.NewString(),
		AmountCents:     req.AmountCents,
	}
	if req.IdempotencyKey != "" {
		g.refundsBy[req.IdempotencyKey] = result
	}
	return result, nil
}

// ChargeCount reports how many distinct charges were created, one per
// idempotency key.
func (g *MockGateway) ChargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.chargesBy)
}

// RefundCount reports how many distinct refunds were created.
func (g *MockGateway) RefundCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refundsBy)
}
