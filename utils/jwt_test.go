package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potholemap_server/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    7,
		Email: "alice@example.com",
		Role:  models.RoleUser,
	}
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("test-secret", time.Hour, testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT("test-secret", -time.Minute, testUser())
	require.NoError(t, err)

	_, err = ValidateJWT("test-secret", token)
	assert.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("test-secret", time.Hour, testUser())
	require.NoError(t, err)

	_, err = ValidateJWT("other-secret", token)
	assert.Error(t, err)
}

func TestJWTGarbage(t *testing.T) {
	_, err := ValidateJWT("test-secret", "not.a.token")
	assert.Error(t, err)
}
