package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("1700000000000abc123def", "sunil", testSecret, DefaultTokenTTL)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000abc123def", claims.UserID)
	assert.Equal(t, "sunil", claims.Username)
	assert.Equal(t, claims.UserID, claims.Subject)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("id", "sunil", testSecret, DefaultTokenTTL)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "another-secret")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := GenerateJWT("id", "sunil", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
