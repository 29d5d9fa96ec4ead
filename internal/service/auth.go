package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
	"driveshare-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	// Login verifies guest credentials and issues a signed API token.
	Login(ctx context.Context, email, password string) (string, *domain.Guest, error)
	// Register creates a guest account and logs it in.
	Register(ctx context.Context, name, email, password string) (string, *domain.Guest, error)
	// SetAccountStatus suspends, bans, or reinstates a guest account.
	// Fleet-only at the API layer; a suspended or banned account is
	// blocked from filing claims by the eligibility gate.
	SetAccountStatus(ctx context.Context, guestID int32, status domain.AccountStatus) (*domain.Guest, error)
}

type authService struct {
	guestRepo repository.GuestRepository
	tokens    security.TokenManager
}

func NewAuthService(guestRepo repository.GuestRepository, tokens security.TokenManager) AuthService {
	return &authService{guestRepo: guestRepo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Guest, error) {
	guest, err := s.guestRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !security.CheckPassword(guest.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	if guest.AccountStatus == domain.AccountStatusBanned {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(guest.ID, guest.Email, security.RoleGuest)
	if err != nil {
		return "", nil, err
	}
	return token, guest, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (string, *domain.Guest, error) {
	if name == "" {
		return "", nil, &domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if !strings.Contains(email, "@") {
		return "", nil, &domain.ValidationError{Field: "email", Message: "a valid email address is required"}
	}
	if len(password) < 8 {
		return "", nil, &domain.ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}

	if _, err := s.guestRepo.GetByEmail(ctx, email); err == nil {
		return "", nil, &domain.ConflictError{Resource: "guest", Message: "an account with this email already exists"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	guest := &domain.Guest{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		AccountStatus: domain.AccountStatusActive,
	}
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.GenerateToken(guest.ID, guest.Email, security.RoleGuest)
	if err != nil {
		return "", nil, err
	}
	return token, guest, nil
}

func (s *authService) SetAccountStatus(ctx context.Context, guestID int32, status domain.AccountStatus) (*domain.Guest, error) {
	switch status {
	case domain.AccountStatusActive, domain.AccountStatusSuspended, domain.AccountStatusBanned:
	default:
		return nil, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown account status %q", status)}
	}

	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if err := s.guestRepo.UpdateAccountStatus(ctx, guestID, status); err != nil {
		return nil, err
	}
	guest.AccountStatus = status
	return guest, nil
}
