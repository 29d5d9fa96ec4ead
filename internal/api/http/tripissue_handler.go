package http

import (
	"encoding/json"
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
)

// TripIssuesHandler serves host-reported trip issues and the guest
// acknowledge/dispute flow that precedes claim escalation.
type TripIssuesHandler struct {
	tripIssues service.TripIssueService
}

func NewTripIssuesHandler(tripIssues service.TripIssueService) *TripIssuesHandler {
	return &TripIssuesHandler{tripIssues: tripIssues}
}

type reportIssueRequest struct {
	BookingID   int32  `json:"booking_id"`
	IssueType   string `json:"issue_type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type disputeIssueRequest struct {
	Reason string `json:"reason"`
}

type tripIssueResponse struct {
	TripIssue *domain.TripIssue `json:"trip_issue"`
}

func (h *TripIssuesHandler) Report(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())

	var req reportIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	issue, err := h.tripIssues.ReportIssue(r.Context(), req.BookingID, party.UserID, security.RoleToFiler(party.Role),
		domain.TripIssueType(req.IssueType), domain.TripIssueSeverity(req.Severity), req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripIssueResponse{TripIssue: issue})
}

func (h *TripIssuesHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())
	issueID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	issue, err := h.tripIssues.Acknowledge(r.Context(), issueID, party.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripIssueResponse{TripIssue: issue})
}

func (h *TripIssuesHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())
	issueID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req disputeIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	issue, err := h.tripIssues.Dispute(r.Context(), issueID, party.UserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripIssueResponse{TripIssue: issue})
}

func (h *TripIssuesHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	issueID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	issue, err := h.tripIssues.Resolve(r.Context(), issueID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripIssueResponse{TripIssue: issue})
}
