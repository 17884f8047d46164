package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	service, err := NewJWTService("test-secret", "")
	require.NoError(t, err)

	tokenString, err := service.GenerateToken("user-a", "ana@example.com", "Ana")
	require.NoError(t, err)

	session, err := service.ParseToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-a", session.UserID)
	assert.Equal(t, "ana@example.com", session.Email)
	assert.Equal(t, "Ana", session.Name)
}

func TestParseTokenWrongSecret(t *testing.T) {
	service, err := NewJWTService("test-secret", "")
	require.NoError(t, err)

	other, err := NewJWTService("other-secret", "")
	require.NoError(t, err)

	tokenString, err := other.GenerateToken("user-a", "ana@example.com", "Ana")
	require.NoError(t, err)

	_, err = service.ParseToken(tokenString)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	service, err := NewJWTService("test-secret", "")
	require.NoError(t, err)

	_, err = service.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenMissingSubject(t *testing.T) {
	service, err := NewJWTService("test-secret", "")
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ana@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ParseToken(tokenString)
	assert.Error(t, err)
}

func TestParseTokenSplitName(t *testing.T) {
	service, err := NewJWTService("test-secret", "")
	require.NoError(t, err)

	// Clerk отдаёт first_name/last_name, если составного name нет
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        "user-a",
		"first_name": "Ana",
		"last_name":  "Silva",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	session, err := service.ParseToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", session.Name)
}

func TestNewJWTServiceBadPEM(t *testing.T) {
	_, err := NewJWTService("test-secret", "не PEM")
	assert.Error(t, err)
}
