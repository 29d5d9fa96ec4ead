package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	Guest *domain.Guest `json:"guest"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, &domain.ValidationError{Field: "email", Message: "email and password are required"})
		return
	}

	token, guest, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid email or password", Code: "INVALID_CREDENTIALS"})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Guest: guest})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	token, guest, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loginResponse{Token: token, Guest: guest})
}

type accountStatusRequest struct {
	Status string `json:"status"`
}

// UpdateAccountStatus is fleet-only (enforced by the route wrapper).
func (h *AuthHandler) UpdateAccountStatus(w http.ResponseWriter, r *http.Request) {
	guestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req accountStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "malformed JSON body"})
		return
	}

	guest, err := h.auth.SetAccountStatus(r.Context(), guestID, domain.AccountStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"guest": guest})
}
