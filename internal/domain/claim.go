package domain

import "time"

type ClaimType string

const (
	ClaimTypeVehicleIssue   ClaimType = "VEHICLE_ISSUE"
	ClaimTypeOvercharge     ClaimType = "OVERCHARGE"
	ClaimTypeSafetyConcern  ClaimType = "SAFETY_CONCERN"
	ClaimTypeMisconduct     ClaimType = "MISCONDUCT"
	ClaimTypePropertyDamage ClaimType = "PROPERTY_DAMAGE"
	ClaimTypeOther          ClaimType = "OTHER"
)

// ValidClaimType reports whether t is one of the enumerated claim types.
func ValidClaimType(t ClaimType) bool {
	switch t {
	case ClaimTypeVehicleIssue, ClaimTypeOvercharge, ClaimTypeSafetyConcern,
		ClaimTypeMisconduct, ClaimTypePropertyDamage, ClaimTypeOther:
		return true
	}
	return false
}

type ClaimStatus string

const (
	ClaimStatusPending        ClaimStatus = "PENDING"
	ClaimStatusUnderReview    ClaimStatus = "UNDER_REVIEW"
	ClaimStatusGuestResponded ClaimStatus = "GUEST_RESPONDED"
	ClaimStatusApproved       ClaimStatus = "APPROVED"
	ClaimStatusDenied         ClaimStatus = "DENIED"
	ClaimStatusPaid           ClaimStatus = "PAID"
	ClaimStatusResolved       ClaimStatus = "RESOLVED"
	ClaimStatusClosed         ClaimStatus = "CLOSED"
)

// TerminalClaimStatuses are the states in which a claim no longer blocks
// new filings or locks payment methods. APPROVED is terminal for the
// lifecycle but still awaits payout via MarkPaid.
var TerminalClaimStatuses = []ClaimStatus{
	ClaimStatusDenied,
	ClaimStatusPaid,
	ClaimStatusResolved,
	ClaimStatusClosed,
}

func (s ClaimStatus) Terminal() bool {
	for _, t := range TerminalClaimStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// ClaimTransitions is the closed set of legal status changes. Any
// mutation not listed here is rejected with InvalidTransitionError.
var ClaimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimStatusPending:        {ClaimStatusUnderReview, ClaimStatusGuestResponded, ClaimStatusClosed},
	ClaimStatusUnderReview:    {ClaimStatusGuestResponded, ClaimStatusApproved, ClaimStatusDenied, ClaimStatusClosed},
	ClaimStatusGuestResponded: {ClaimStatusApproved, ClaimStatusDenied, ClaimStatusClosed},
	ClaimStatusApproved:       {ClaimStatusPaid},
	ClaimStatusDenied:         {},
	ClaimStatusPaid:           {},
	ClaimStatusResolved:       {},
	ClaimStatusClosed:         {},
}

// CanTransition reports whether a claim may move from one status to another.
func (s ClaimStatus) CanTransition(to ClaimStatus) bool {
	for _, allowed := range ClaimTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type FilerRole string

const (
	FilerRoleGuest   FilerRole = "GUEST"
	FilerRoleHost    FilerRole = "HOST"
	FilerRoleFleet   FilerRole = "FLEET"
	FilerRolePartner FilerRole = "PARTNER"
	// FilerRoleLegacy marks rows migrated from before the role column
	// existed. Legacy claims are treated as host-filed everywhere.
	FilerRoleLegacy FilerRole = "LEGACY"
)

// Effective normalizes the legacy variant to host semantics.
func (r FilerRole) Effective() FilerRole {
	if r == FilerRoleLegacy || r == "" {
		return FilerRoleHost
	}
	return r
}

type Claim struct {
	ID          int32       `json:"id"`
	BookingID   int32       `json:"booking_id"`
	PolicyID    *int32      `json:"policy_id,omitempty"`
	Type        ClaimType   `json:"type"`
	Status      ClaimStatus `json:"status"`
	Description string      `json:"description"`
	// Deductible snapshot from the policy at filing time.
	DeductibleCents       int64      `json:"deductible_cents"`
	EstimatedCostCents    int64      `json:"estimated_cost_cents"`
	ApprovedAmountCents   *int64     `json:"approved_amount_cents,omitempty"`
	IncidentDate          string     `json:"incident_date"`
	FiledByRole           FilerRole  `json:"filed_by_role"`
	FiledByGuestID        *int32     `json:"filed_by_guest_id,omitempty"`
	GuestAtFault          bool       `json:"guest_at_fault"`
	GuestResponseText     string     `json:"guest_response_text"`
	GuestResponseDate     *time.Time `json:"guest_response_date,omitempty"`
	GuestResponseDeadline *time.Time `json:"guest_response_deadline,omitempty"`
	ReviewNotes           string     `json:"review_notes"`
	PayoutReference       string     `json:"payout_reference"`
	CreatedOn             time.Time  `json:"created_on"`
	UpdatedOn             time.Time  `json:"updated_on"`
}

// FiledByGuest reports whether the claim was filed by the booking's
// guest (as opposed to host, fleet, partner, or a legacy row).
func (c *Claim) FiledByGuest() bool {
	return c.FiledByRole.Effective() == FilerRoleGuest
}

type ClaimPhoto struct {
	ID      int32  `json:"id"`
	ClaimID int32  `json:"claim_id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// ClaimSummary carries the aggregate counts returned alongside claim lists.
type ClaimSummary struct {
	Total           int32 `json:"total"`
	FiledByMe       int32 `json:"filed_by_me"`
	AgainstMe       int32 `json:"against_me"`
	NeedingResponse int32 `json:"needing_response"`
	UnderReview     int32 `json:"under_review"`
	Resolved        int32 `json:"resolved"`
}
