package http

import (
	"context"
	"net/http"
	"strings"

	"driveshare-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "party_claims"

// AuthMiddleware validates the bearer token and attaches the signed
// party claims to the request context.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, security.ErrInvalidToken)
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireFleet wraps a handler so only fleet operators reach it.
// Operator authority is the signed role claim, not a shared key.
func RequireFleet(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := security.RequireOperator(PartyFromContext(r.Context())); err != nil {
			writeError(w, err)
			return
		}
		next(w, r)
	}
}

// PartyFromContext returns the authenticated party, or nil.
func PartyFromContext(ctx context.Context) *security.PartyClaims {
	claims, _ := ctx.Value(claimsContextKey).(*security.PartyClaims)
	return claims
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
