package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultGatewayTimeout = 30 * time.Second

// HTTPGateway talks to the payment provider's REST API. Declines come
// back as a 402 with a decline code and are reported through the
// result, not as errors.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultGatewayTimeout},
	}
}

type gatewayChargePayload struct {
	Customer      string            `json:"customer"`
	PaymentMethod string            `json:"payment_method"`
	AmountCents   int64             `json:"amount_cents"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type gatewayChargeReply struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	DeclineCode string `json:"decline_code"`
}

type gatewayRefundPayload struct {
	PaymentIntent string `json:"payment_intent"`
	AmountCents   int64  `json:"amount_cents"`
	Reason        string `json:"reason"`
}

type gatewayRefundReply struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
}

func (g *HTTPGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	payload := gatewayChargePayload{
		Customer:      req.CustomerRef,
		PaymentMethod: req.PaymentMethodRef,
		AmountCents:   req.AmountCents,
		Description:   req.Description,
		Metadata:      req.Metadata,
	}

	var reply gatewayChargeReply
	status, err := g.post(ctx, "/v1/charges", req.IdempotencyKey, payload, &reply)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusPaymentRequired:
		return &ChargeResult{Status: ChargeFailed, AmountCents: req.AmountCents, FailureReason: reply.DeclineCode}, nil
	case status >= 300:
		return nil, fmt.Errorf("gateway charge returned status %d", status)
	}
	return &ChargeResult{Status: ChargeSucceeded, GatewayChargeID: reply.ID, AmountCents: reply.AmountCents}, nil
}

func (g *HTTPGateway) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	payload := gatewayRefundPayload{
		PaymentIntent: req.PaymentIntentRef,
		AmountCents:   req.AmountCents,
		Reason:        req.Reason,
	}

	var reply gatewayRefundReply
	status, err := g.post(ctx, "/v1/refunds", req.IdempotencyKey, payload, &reply)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("gateway refund returned status %d", status)
	}
	return &RefundResult{GatewayRefundID: reply.ID, AmountCents: reply.AmountCents}, nil
}

func (g *HTTPGateway) post(ctx context.Context, path, idempotencyKey string, payload, reply any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(reply); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return resp.StatusCode, nil
}
