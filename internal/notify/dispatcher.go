// Package notify is the outbound notification boundary. Delivery is
// fire-and-forget: a failed send is logged and never blocks the state
// or financial mutation that triggered it.
package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"driveshare-backend/internal/logger"
)

type TemplateKind string

const (
	TemplateClaimFiled      TemplateKind = "claim_filed"
	TemplateClaimResponse   TemplateKind = "claim_response"
	TemplateClaimDecision   TemplateKind = "claim_decision"
	TemplateIssueReported   TemplateKind = "trip_issue_reported"
	TemplateIssueEscalated  TemplateKind = "trip_issue_escalated"
	TemplateRefundProcessed TemplateKind = "refund_processed"
	TemplateChargeProcessed TemplateKind = "charge_processed"
)

// Recipient is the resolved delivery target for one notification.
type Recipient struct {
	Email string
	Name  string
}

type Dispatcher interface {
	// Notify sends the templated message. Implementations must not
	// return delivery failures to business flows; callers ignore the
	// error except for logging.
	Notify(ctx context.Context, to Recipient, kind TemplateKind, payload map[string]string) error
}

var subjects = map[TemplateKind]string{
	TemplateClaimFiled:      "A claim was filed on your trip",
	TemplateClaimResponse:   "The guest responded to your claim",
	TemplateClaimDecision:   "Your claim has been decided",
	TemplateIssueReported:   "Your host reported a trip issue",
	TemplateIssueEscalated:  "A trip issue was escalated to a claim",
	TemplateRefundProcessed: "Your refund has been processed",
	TemplateChargeProcessed: "A trip charge was processed",
}

// SendGridDispatcher delivers notifications over the SendGrid API.
type SendGridDispatcher struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridDispatcher(apiKey, fromEmail, fromName string) *SendGridDispatcher {
	return &SendGridDispatcher{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (d *SendGridDispatcher) Notify(ctx context.Context, to Recipient, kind TemplateKind, payload map[string]string) error {
	subject, ok := subjects[kind]
	if !ok {
		subject = "DriveShare notification"
	}

	body := subject + "\n\n"
	for k, v := range payload {
		body += fmt.Sprintf("%s: %s\n", k, v)
	}

	from := mail.NewEmail(d.fromName, d.fromEmail)
	recipient := mail.NewEmail(to.Name, to.Email)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(d.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// NoopDispatcher is used in dev and tests.
type NoopDispatcher struct{}

func (NoopDispatcher) Notify(ctx context.Context, to Recipient, kind TemplateKind, payload map[string]string) error {
	logger.Debug("Notification suppressed", "kind", string(kind), "recipient", to.Email)
	return nil
}
