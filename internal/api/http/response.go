package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/security"
)

type errorBody struct {
	Error          string `json:"error"`
	Code           string `json:"code"`
	Field          string `json:"field,omitempty"`
	BlockReason    string `json:"block_reason,omitempty"`
	ActionRequired string `json:"action_required,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. Gate
// and validation failures are structured 4xx; anything unrecognized is
// logged with context and returned as a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		notEligible   *domain.NotEligibleError
		conflict      *domain.ConflictError
		transition    *domain.InvalidTransitionError
		gateway       *domain.GatewayError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validationErr.Message, Code: "VALIDATION_ERROR", Field: validationErr.Field})
	case errors.As(err, &notEligible):
		writeJSON(w, http.StatusForbidden, errorBody{
			Error:          notEligible.BlockReason,
			Code:           "NOT_ELIGIBLE",
			BlockReason:    notEligible.BlockReason,
			ActionRequired: notEligible.ActionRequired,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found", Code: "NOT_FOUND"})
	case errors.Is(err, domain.ErrNotBookingParty):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error(), Code: "NOT_BOOKING_PARTY"})
	case errors.Is(err, domain.ErrDeadlineExpired):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "DEADLINE_EXPIRED"})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: conflict.Message, Code: "CONFLICT"})
	case errors.As(err, &transition):
		writeJSON(w, http.StatusConflict, errorBody{Error: transition.Error(), Code: "INVALID_TRANSITION"})
	case errors.As(err, &gateway):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "payment gateway error", Code: "GATEWAY_ERROR"})
	case errors.Is(err, security.ErrInvalidToken), errors.Is(err, security.ErrExpiredToken):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required", Code: "UNAUTHORIZED"})
	case errors.Is(err, security.ErrNotOperator):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "fleet operator role required", Code: "FORBIDDEN"})
	default:
		logger.Error("Unhandled error in request", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: "INTERNAL_ERROR"})
	}
}
