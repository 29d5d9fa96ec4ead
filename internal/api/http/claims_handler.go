package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
)

// ClaimsHandler serves the claim lifecycle endpoints.
type ClaimsHandler struct {
	claims      service.ClaimService
	eligibility service.EligibilityService
}

func NewClaimsHandler(claims service.ClaimService, eligibility service.EligibilityService) *ClaimsHandler {
	return &ClaimsHandler{claims: claims, eligibility: eligibility}
}

type fileClaimRequest struct {
	BookingID     int32    `json:"booking_id"`
	ClaimType     string   `json:"claim_type"`
	Description   string   `json:"description"`
	IncidentDate  string   `json:"incident_date"`
	EstimatedCost int64    `json:"estimated_cost_cents"`
	Photos        []string `json:"photos"`
}

type respondRequest struct {
	ResponseText string `json:"response_text"`
}

type adjudicateRequest struct {
	Decision       string `json:"decision"`
	ApprovedAmount *int64 `json:"approved_amount_cents"`
	ReviewNotes    string `json:"review_notes"`
}

type markPaidRequest struct {
	PayoutReference string `json:"payout_reference"`
}

type listClaimsResponse struct {
	Claims  []domain.Claim       `json:"claims"`
	Summary *domain.ClaimSummary `json:"summary"`
}

type claimResponse struct {
	Claim  *domain.Claim       `json:"claim"`
	Photos []domain.ClaimPhoto `json:"photos,omitempty"`
}

func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())

	filter := service.ClaimFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = service.ClaimFilterAll
	}
	status := domain.ClaimStatus(r.URL.Query().Get("status"))

	claims, summary, err := h.claims.ListClaims(r.Context(), party.UserID, filter, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listClaimsResponse{Claims: claims, Summary: summary})
}

func (h *ClaimsHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())

	eligible, err := h.eligibility.ListEligibleBookings(r.Context(), party.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": eligible})
}

func (h *ClaimsHandler) Get(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())
	claimID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	claim, photos, err := h.claims.GetClaim(r.Context(), claimID, party.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Claim: claim, Photos: photos})
}

func (h *ClaimsHandler) File(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())

	var req fileClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	claim, err := h.claims.FileClaim(r.Context(), service.FileClaimInput{
		BookingID:          req.BookingID,
		FilerRole:          security.RoleToFiler(party.Role),
		FilerID:            party.UserID,
		Type:               domain.ClaimType(req.ClaimType),
		Description:        req.Description,
		IncidentDate:       req.IncidentDate,
		EstimatedCostCents: req.EstimatedCost,
		PhotoURLs:          req.Photos,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claimResponse{Claim: claim})
}

func (h *ClaimsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())
	claimID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	claim, err := h.claims.Respond(r.Context(), claimID, party.UserID, req.ResponseText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Claim: claim})
}

func (h *ClaimsHandler) Adjudicate(w http.ResponseWriter, r *http.Request) {
	claimID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req adjudicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	claim, err := h.claims.Adjudicate(r.Context(), claimID, domain.ClaimStatus(req.Decision), req.ApprovedAmount, req.ReviewNotes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Claim: claim})
}

func (h *ClaimsHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	claimID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req markPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	claim, err := h.claims.MarkPaid(r.Context(), claimID, req.PayoutReference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Claim: claim})
}

func (h *ClaimsHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	claimID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	claim, err := h.claims.StartReview(r.Context(), claimID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Claim: claim})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return int32(id), nil
}
