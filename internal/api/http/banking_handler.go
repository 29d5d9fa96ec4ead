package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
)

// BankingHandler serves the financial action endpoint. Each request
// names a single action; the body is decoded into the matching
// typed command before dispatch.
type BankingHandler struct {
	banking service.BankingService
	locks   service.PaymentLockService
}

func NewBankingHandler(banking service.BankingService, locks service.PaymentLockService) *BankingHandler {
	return &BankingHandler{banking: banking, locks: locks}
}

type bankingRequest struct {
	Action           string `json:"action"`
	TripChargeID     int32  `json:"trip_charge_id"`
	BookingID        int32  `json:"booking_id"`
	PaymentMethodRef string `json:"payment_method_ref"`
	AmountCents      int64  `json:"amount_cents"`
	Percentage       int32  `json:"percentage"`
	Reason           string `json:"reason"`
	Notes            string `json:"notes"`
}

const (
	actionCharge          = "charge"
	actionWaive           = "waive"
	actionRefund          = "refund"
	actionAddBonus        = "add_bonus"
	actionEscalateDispute = "escalate_dispute"
)

// fleetOnlyActions lists the actions a guest or host token may not run.
var fleetOnlyActions = map[string]bool{
	actionWaive:           true,
	actionAddBonus:        true,
	actionEscalateDispute: true,
}

func (h *BankingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())
	guestID, err := pathID(r, "guestID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req bankingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	if fleetOnlyActions[req.Action] {
		if err := security.RequireOperator(party); err != nil {
			writeError(w, err)
			return
		}
	} else if party.Role != security.RoleFleet && party.UserID != guestID {
		// Charging or refunding another guest's account is operator
		// work; a guest or host token only settles its own account.
		writeError(w, security.ErrNotOperator)
		return
	}

	cmd, err := commandFromRequest(req)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.banking.Execute(r.Context(), guestID, cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func commandFromRequest(req bankingRequest) (service.BankingCommand, error) {
	switch req.Action {
	case actionCharge:
		return service.ChargeCommand{TripChargeID: req.TripChargeID, PaymentMethodRef: req.PaymentMethodRef}, nil
	case actionWaive:
		return service.WaiveCommand{TripChargeID: req.TripChargeID, Reason: req.Reason, Percentage: req.Percentage}, nil
	case actionRefund:
		return service.RefundCommand{BookingID: req.BookingID, AmountCents: req.AmountCents, Reason: req.Reason}, nil
	case actionAddBonus:
		return service.AddBonusCommand{BookingID: req.BookingID, AmountCents: req.AmountCents, Reason: req.Reason}, nil
	case actionEscalateDispute:
		return service.EscalateDisputeCommand{TripChargeID: req.TripChargeID, Notes: req.Notes}, nil
	default:
		return nil, &domain.ValidationError{Field: "action", Message: "unknown banking action " + req.Action}
	}
}

func (h *BankingHandler) BookingCharges(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	charges, err := h.banking.ListBookingCharges(r.Context(), party.UserID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"charges": charges})
}

func (h *BankingHandler) PaymentMethodLock(w http.ResponseWriter, r *http.Request) {
	party := PartyFromContext(r.Context())
	paymentMethodRef := mux.Vars(r)["id"]
	if paymentMethodRef == "" {
		writeError(w, &domain.ValidationError{Field: "id", Message: "payment method reference is required"})
		return
	}

	lock, err := h.locks.IsLocked(r.Context(), paymentMethodRef, party.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locked":             lock.Locked(),
		"locked_for_booking": lock.LockedForBooking,
		"locked_for_claim":   lock.LockedForClaim,
	})
}
