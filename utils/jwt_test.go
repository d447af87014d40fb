package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndDecodeJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("admin-1", "ADMIN", 1)
	require.NoError(t, err)

	claims, err := DecodeJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims["user_id"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestDecodeJWT_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first")
	token, err := GenerateJWT("admin-1", "ADMIN", 1)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second")
	_, err = DecodeJWT(token)
	assert.Error(t, err)
}

func TestDecodeJWT_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := DecodeJWT("whatever")
	assert.EqualError(t, err, "JWT_SECRET not configured")
}
