package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"driveshare-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNotOperator  = errors.New("caller does not hold the fleet operator role")
)

type PartyRole string

const (
	RoleGuest PartyRole = "GUEST"
	RoleHost  PartyRole = "HOST"
	RoleFleet PartyRole = "FLEET"
)

// PartyClaims are the signed claims carried by every API token. The
// Role claim replaces the legacy shared fleet-key string: operator-only
// endpoints require a token signed with RoleFleet rather than a secret
// compared by string equality.
type PartyClaims struct {
	UserID int32     `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Role   PartyRole `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateToken(userID int32, email string, role PartyRole) (string, error)
	ValidateToken(tokenString string) (*PartyClaims, error)
}

type tokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(secret string, expiryMinutes int) TokenManager {
	if expiryMinutes <= 0 {
		expiryMinutes = 60
	}
	return &tokenManager{
		secret: []byte(secret),
		expiry: time.Duration(expiryMinutes) * time.Minute,
	}
}

func (m *tokenManager) GenerateToken(userID int32, email string, role PartyRole) (string, error) {
	claims := PartyClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "driveshare-backend",
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*PartyClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PartyClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*PartyClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireOperator checks that the authenticated party holds the fleet
// operator role. Adjudication, waives, dispute escalation, and banking
// actions against another guest's account go through this.
func RequireOperator(claims *PartyClaims) error {
	if claims == nil {
		return ErrInvalidToken
	}
	if claims.Role != RoleFleet {
		return ErrNotOperator
	}
	return nil
}

// RoleToFiler maps an authenticated party role onto the claim filer enum.
func RoleToFiler(role PartyRole) domain.FilerRole {
	switch role {
	case RoleGuest:
		return domain.FilerRoleGuest
	case RoleFleet:
		return domain.FilerRoleFleet
	default:
		return domain.FilerRoleHost
	}
}
