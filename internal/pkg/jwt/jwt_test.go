package jwt

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc, err := NewJWTService("test-secret-key-for-jwt", "1h")
	require.NoError(t, err)

	tokenString, expiresAt, err := svc.GenerateAccessToken("emp-1", employee.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.NotZero(t, expiresAt)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	id, ok := token.Get(ClaimEmployeeID)
	require.True(t, ok)
	assert.Equal(t, "emp-1", id)
	typ, _ := token.Get(ClaimType)
	assert.Equal(t, TokenTypeAccess, typ)
	role, _ := token.Get(ClaimRole)
	assert.Equal(t, string(employee.RoleManager), role)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "soon")
	assert.Error(t, err)
}
