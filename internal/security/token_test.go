package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"driveshare-backend/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager("test-secret", 60)

	token, err := mgr.GenerateToken(10, "guest@test.com", RoleGuest)
	assert.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int32(10), claims.UserID)
	assert.Equal(t, "guest@test.com", claims.Email)
	assert.Equal(t, RoleGuest, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", 60).GenerateToken(10, "guest@test.com", RoleGuest)
	assert.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	mgr := NewTokenManager("test-secret", 60)
	_, err := mgr.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireOperator(t *testing.T) {
	assert.ErrorIs(t, RequireOperator(nil), ErrInvalidToken)
	assert.ErrorIs(t, RequireOperator(&PartyClaims{UserID: 10, Role: RoleGuest}), ErrNotOperator)
	assert.ErrorIs(t, RequireOperator(&PartyClaims{UserID: 20, Role: RoleHost}), ErrNotOperator)
	assert.NoError(t, RequireOperator(&PartyClaims{UserID: 1, Role: RoleFleet}))
}

func TestRoleToFiler(t *testing.T) {
	assert.Equal(t, domain.FilerRoleGuest, RoleToFiler(RoleGuest))
	assert.Equal(t, domain.FilerRoleHost, RoleToFiler(RoleHost))
	assert.Equal(t, domain.FilerRoleFleet, RoleToFiler(RoleFleet))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret"))
}
