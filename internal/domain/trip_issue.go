package domain

import "time"

type TripIssueType string

const (
	TripIssueTypeDamage       TripIssueType = "DAMAGE"
	TripIssueTypeMissingItems TripIssueType = "MISSING_ITEMS"
	TripIssueTypeCleanliness  TripIssueType = "CLEANLINESS"
	TripIssueTypeLateReturn   TripIssueType = "LATE_RETURN"
	TripIssueTypeMechanical   TripIssueType = "MECHANICAL"
	TripIssueTypeOther        TripIssueType = "OTHER"
)

type TripIssueSeverity string

const (
	TripIssueSeverityLow    TripIssueSeverity = "LOW"
	TripIssueSeverityMedium TripIssueSeverity = "MEDIUM"
	TripIssueSeverityHigh   TripIssueSeverity = "HIGH"
)

type TripIssueStatus string

const (
	TripIssueStatusOpen         TripIssueStatus = "OPEN"
	TripIssueStatusAcknowledged TripIssueStatus = "ACKNOWLEDGED"
	TripIssueStatusDisputed     TripIssueStatus = "DISPUTED"
	TripIssueStatusResolved     TripIssueStatus = "RESOLVED"
	TripIssueStatusEscalated    TripIssueStatus = "ESCALATED_TO_CLAIM"
)

func (s TripIssueStatus) Terminal() bool {
	return s == TripIssueStatusResolved || s == TripIssueStatusEscalated
}

var TripIssueTransitions = map[TripIssueStatus][]TripIssueStatus{
	TripIssueStatusOpen:         {TripIssueStatusAcknowledged, TripIssueStatusDisputed, TripIssueStatusResolved, TripIssueStatusEscalated},
	TripIssueStatusAcknowledged: {TripIssueStatusResolved, TripIssueStatusEscalated},
	TripIssueStatusDisputed:     {TripIssueStatusResolved, TripIssueStatusEscalated},
	TripIssueStatusResolved:     {},
	TripIssueStatusEscalated:    {},
}

func (s TripIssueStatus) CanTransition(to TripIssueStatus) bool {
	for _, allowed := range TripIssueTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TripIssue is a host-reported, pre-claim problem the guest must
// acknowledge or contest. At most one active issue exists per booking.
type TripIssue struct {
	ID                  int32             `json:"id"`
	BookingID           int32             `json:"booking_id"`
	Type                TripIssueType     `json:"type"`
	Severity            TripIssueSeverity `json:"severity"`
	Description         string            `json:"description"`
	Status              TripIssueStatus   `json:"status"`
	DisputeReason       string            `json:"dispute_reason"`
	HostReportedAt      time.Time         `json:"host_reported_at"`
	GuestAcknowledgedAt *time.Time        `json:"guest_acknowledged_at,omitempty"`
	EscalationDeadline  time.Time         `json:"escalation_deadline"`
	CreatedOn           time.Time         `json:"created_on"`
	UpdatedOn           time.Time         `json:"updated_on"`
}

// EscalationDue reports whether the issue should be auto-escalated into
// a claim. The deadline is a wall-clock column evaluated lazily against
// the injected now, so the check survives process restarts.
//
// A DISPUTED issue pauses the escalation clock: disputing is an active
// guest response awaiting human review, silence is not. Only OPEN,
// unacknowledged issues escalate.
func (i *TripIssue) EscalationDue(now time.Time) bool {
	return i.Status == TripIssueStatusOpen &&
		i.GuestAcknowledgedAt == nil &&
		now.After(i.EscalationDeadline)
}

// BlocksGuest reports whether this issue stops the guest from filing a
// new claim: the host has reported, the guest has not acknowledged, and
// the issue is still live.
func (i *TripIssue) BlocksGuest() bool {
	return !i.HostReportedAt.IsZero() &&
		i.GuestAcknowledgedAt == nil &&
		i.Status == TripIssueStatusOpen
}
