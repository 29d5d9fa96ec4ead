package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimStatusTransitions(t *testing.T) {
	assert.True(t, ClaimStatusPending.CanTransition(ClaimStatusUnderReview))
	assert.True(t, ClaimStatusPending.CanTransition(ClaimStatusGuestResponded))
	assert.True(t, ClaimStatusUnderReview.CanTransition(ClaimStatusApproved))
	assert.True(t, ClaimStatusGuestResponded.CanTransition(ClaimStatusDenied))
	assert.True(t, ClaimStatusApproved.CanTransition(ClaimStatusPaid))

	assert.False(t, ClaimStatusPending.CanTransition(ClaimStatusApproved))
	assert.False(t, ClaimStatusApproved.CanTransition(ClaimStatusDenied))
	assert.False(t, ClaimStatusDenied.CanTransition(ClaimStatusUnderReview))
	assert.False(t, ClaimStatusPaid.CanTransition(ClaimStatusPending))
}

func TestClaimStatusTerminal(t *testing.T) {
	for _, s := range []ClaimStatus{ClaimStatusDenied, ClaimStatusPaid, ClaimStatusResolved, ClaimStatusClosed} {
		assert.True(t, s.Terminal(), string(s))
	}
	// APPROVED still awaits payout.
	for _, s := range []ClaimStatus{ClaimStatusPending, ClaimStatusUnderReview, ClaimStatusGuestResponded, ClaimStatusApproved} {
		assert.False(t, s.Terminal(), string(s))
	}
}

func TestFilerRoleEffective(t *testing.T) {
	assert.Equal(t, FilerRoleHost, FilerRoleLegacy.Effective())
	assert.Equal(t, FilerRoleHost, FilerRole("").Effective())
	assert.Equal(t, FilerRoleGuest, FilerRoleGuest.Effective())
	assert.Equal(t, FilerRoleFleet, FilerRoleFleet.Effective())
}

func TestFiledByGuest(t *testing.T) {
	guestID := int32(10)
	assert.True(t, (&Claim{FiledByRole: FilerRoleGuest, FiledByGuestID: &guestID}).FiledByGuest())
	assert.False(t, (&Claim{FiledByRole: FilerRoleHost}).FiledByGuest())
	// Legacy rows count as host-filed.
	assert.False(t, (&Claim{FiledByRole: FilerRoleLegacy}).FiledByGuest())
}

func TestValidClaimType(t *testing.T) {
	assert.True(t, ValidClaimType(ClaimTypeOvercharge))
	assert.True(t, ValidClaimType(ClaimTypeVehicleIssue))
	assert.False(t, ValidClaimType(ClaimType("FRAUD")))
	assert.False(t, ValidClaimType(ClaimType("")))
}
