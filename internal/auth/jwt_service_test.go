package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/internal/model"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "user@example.com", model.RoleSales)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, string(model.RoleSales), claims.Role)
}

func TestJWTService_RolePreserved(t *testing.T) {
	svc := NewJWTService("test-secret")

	for _, role := range []model.Role{model.RoleAdmin, model.RoleSales} {
		token, err := svc.GenerateToken(uuid.New(), "user@example.com", role)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, string(role), claims.Role)
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("issuer-secret")
	verifier := NewJWTService("other-secret")

	token, err := issuer.GenerateToken(uuid.New(), "user@example.com", model.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret")

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
