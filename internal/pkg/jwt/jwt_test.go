package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "tomorrow")
	assert.Error(t, err)

	_, err = NewJWTService("secret", "-1h")
	assert.Error(t, err)
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestService(t)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", RoleManager)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	userID, _ := decoded.Get("user_id")
	role, _ := decoded.Get("role")
	tokenType, _ := decoded.Get("type")
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "manager", role)
	assert.Equal(t, TokenTypeAccess, tokenType)
}

func TestGenerateAccessToken_InvalidRole(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.GenerateAccessToken("user-1", Role("owner"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSSEToken(t *testing.T) {
	svc := newTestService(t)

	token, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	access, _, err := svc.GenerateAccessToken("user-1", RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsOtherSecret(t *testing.T) {
	svc := newTestService(t)
	other, err := NewJWTService("other-secret", "1h")
	require.NoError(t, err)

	token, _, err := other.GenerateSSEToken("user-1")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}
