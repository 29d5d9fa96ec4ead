package service

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
)

// Eligibility is the gate's verdict for one (booking, filer) pair.
type Eligibility struct {
	Allowed        bool   `json:"can_file_claim"`
	BlockReason    string `json:"block_reason,omitempty"`
	ActionRequired string `json:"action_required,omitempty"`
}

// BookingEligibility is the per-booking view backing the claim-filing UI.
type BookingEligibility struct {
	BookingID       int32                  `json:"booking_id"`
	BookingCode     string                 `json:"booking_code"`
	Eligibility     Eligibility            `json:"eligibility"`
	TripIssueStatus domain.TripIssueStatus `json:"trip_issue_status,omitempty"`
}

// AccountStatusProvider is the boundary to the account system. In this
// deployment it is backed by the guest store; the gate only depends on
// this contract.
type AccountStatusProvider interface {
	GetAccountStatus(ctx context.Context, guestID int32) (domain.AccountStatus, error)
}

type EligibilityService interface {
	// CanFileClaim is side-effect free. The filing mutation re-runs it
	// inside its own critical section rather than trusting a cached
	// result.
	CanFileClaim(ctx context.Context, bookingID int32, filerRole domain.FilerRole, filerID int32) (*Eligibility, error)
	ListEligibleBookings(ctx context.Context, guestID int32) ([]BookingEligibility, error)
}

type TripIssueService interface {
	// ReportIssue opens a trip issue on behalf of the booking's host.
	// Only that host (or a fleet operator) may report; an open issue
	// blocks the guest's own filings, so reporter identity is checked.
	ReportIssue(ctx context.Context, bookingID, reporterID int32, reporterRole domain.FilerRole, issueType domain.TripIssueType, severity domain.TripIssueSeverity, description string) (*domain.TripIssue, error)
	Acknowledge(ctx context.Context, issueID, guestID int32) (*domain.TripIssue, error)
	Dispute(ctx context.Context, issueID, guestID int32, reason string) (*domain.TripIssue, error)
	Resolve(ctx context.Context, issueID int32) (*domain.TripIssue, error)
	// EscalateOverdue is the sweep entry point: every OPEN issue past
	// its unacknowledged deadline becomes ESCALATED_TO_CLAIM and a
	// claim is filed on the host's behalf. Returns the escalated count.
	EscalateOverdue(ctx context.Context, now time.Time) (int, error)
}

// FileClaimInput carries everything a filing needs; the service decides
// eligibility, validation, and snapshots.
type FileClaimInput struct {
	BookingID    int32
	FilerRole    domain.FilerRole
	FilerID      int32
	Type         domain.ClaimType
	Description  string
	IncidentDate string
	// EstimatedCostCents is ignored for guest filings; guests cannot
	// self-assess damages.
	EstimatedCostCents int64
	PhotoURLs          []string
}

type ClaimFilter string

const (
	ClaimFilterAll       ClaimFilter = "all"
	ClaimFilterFiledByMe ClaimFilter = "filed_by_me"
	ClaimFilterAgainstMe ClaimFilter = "against_me"
)

type ClaimService interface {
	FileClaim(ctx context.Context, in FileClaimInput) (*domain.Claim, error)
	Respond(ctx context.Context, claimID, respondingGuestID int32, responseText string) (*domain.Claim, error)
	StartReview(ctx context.Context, claimID int32) (*domain.Claim, error)
	Adjudicate(ctx context.Context, claimID int32, decision domain.ClaimStatus, approvedAmountCents *int64, reviewNotes string) (*domain.Claim, error)
	MarkPaid(ctx context.Context, claimID int32, payoutReference string) (*domain.Claim, error)
	GetClaim(ctx context.Context, claimID, guestID int32) (*domain.Claim, []domain.ClaimPhoto, error)
	ListClaims(ctx context.Context, guestID int32, filter ClaimFilter, status domain.ClaimStatus) ([]domain.Claim, *domain.ClaimSummary, error)
}

// BankingCommand is the closed set of settlement actions. Each variant
// carries its own payload; Execute switches over them exhaustively.
type BankingCommand interface {
	bankingCommand()
}

type ChargeCommand struct {
	TripChargeID int32
	// PaymentMethodRef overrides the booking's stored instrument when set.
	PaymentMethodRef string
}

type WaiveCommand struct {
	TripChargeID int32
	Reason       string
	Percentage   int32 // 1..100; 100 waives in full
}

type RefundCommand struct {
	BookingID   int32
	AmountCents int64
	Reason      string
}

type AddBonusCommand struct {
	BookingID   int32
	AmountCents int64
	Reason      string
}

type EscalateDisputeCommand struct {
	TripChargeID int32
	Notes        string
}

func (ChargeCommand) bankingCommand()          {}
func (WaiveCommand) bankingCommand()           {}
func (RefundCommand) bankingCommand()          {}
func (AddBonusCommand) bankingCommand()        {}
func (EscalateDisputeCommand) bankingCommand() {}

// BankingResult reports the outcome of one settlement action.
type BankingResult struct {
	Action        string                `json:"action"`
	Charge        *domain.TripCharge    `json:"charge,omitempty"`
	Refund        *domain.RefundRequest `json:"refund,omitempty"`
	Booking       *domain.Booking       `json:"booking,omitempty"`
	ChargeOutcome string                `json:"charge_outcome,omitempty"` // "charged" or "failed"
}

type BankingService interface {
	Execute(ctx context.Context, guestID int32, cmd BankingCommand) (*BankingResult, error)
	// RetryDueCharges re-attempts FAILED charges whose next_retry_at
	// has passed. Sweep entry point; returns attempted count.
	RetryDueCharges(ctx context.Context, now time.Time) (int, error)
	CreateTripCharge(ctx context.Context, bookingID int32, description string, amountCents int64) (*domain.TripCharge, error)
	// ListBookingCharges is the guest-facing charge listing; the
	// booking must belong to the caller.
	ListBookingCharges(ctx context.Context, guestID, bookingID int32) ([]domain.TripCharge, error)
}

type PaymentLockService interface {
	IsLocked(ctx context.Context, paymentMethodRef string, guestID int32) (domain.PaymentMethodLock, error)
}
