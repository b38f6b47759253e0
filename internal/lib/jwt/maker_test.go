package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_1234567890"

func TestMaker_IssueAndVerify_ValidCases(t *testing.T) {
	maker := NewJWTMaker(testSecret, SessionTTL)

	tests := []struct {
		name    string
		payload Payload
	}{
		{
			name:    "admin user",
			payload: Payload{UserID: "a0f1", Email: "admin@rent.uz", Role: "admin"},
		},
		{
			name:    "regular user",
			payload: Payload{UserID: "b7c2", Email: "user@rent.uz", Role: "user"},
		},
		{
			name:    "unicode email",
			payload: Payload{UserID: "c3", Email: "ulugbek@misol.uz", Role: "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.Issue(tt.payload)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.Verify(token)
			require.NoError(t, err)

			assert.Equal(t, tt.payload.UserID, claims.UserID)
			assert.Equal(t, tt.payload.Email, claims.Email)
			assert.Equal(t, tt.payload.Role, claims.Role)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt, time.Second)
			assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt, time.Second)
		})
	}
}

func TestMaker_Verify_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker(testSecret, SessionTTL)

	validToken, err := maker.Issue(Payload{UserID: "1", Email: "u@rent.uz", Role: "user"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: createExpiredToken(t, testSecret)},
		{name: "wrong secret key", token: createTokenWithWrongSecret(t)},
		{name: "tampered token", token: validToken + "tampered"},
		{name: "alg none", token: createUnsignedToken(t, validToken)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestMaker_SecretMissing(t *testing.T) {
	maker := NewJWTMaker("   ", SessionTTL)

	token, err := maker.Issue(Payload{UserID: "1", Role: "user"})
	assert.ErrorIs(t, err, ErrSecretMissing)
	assert.Empty(t, token)
	assert.True(t, IsConfigError(err))

	_, err = maker.Verify("a.b.c")
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewJWTMaker("first_secret_key", SessionTTL)
	maker2 := NewJWTMaker("different_secret_key", SessionTTL)

	token, err := maker1.Issue(Payload{UserID: "1", Role: "admin"})
	require.NoError(t, err)

	claims, err := maker2.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)

	claims, err = maker1.Verify(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestMaker_TokenExpiration(t *testing.T) {
	maker := NewJWTMaker(testSecret, 1100*time.Millisecond)

	token, err := maker.Issue(Payload{UserID: "1", Role: "user"})
	require.NoError(t, err)

	_, err = maker.Verify(token)
	require.NoError(t, err)

	time.Sleep(2100 * time.Millisecond)

	_, err = maker.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func createExpiredToken(t *testing.T, secretKey string) string {
	t.Helper()
	maker := NewJWTMaker(secretKey, -time.Hour)
	token, err := maker.Issue(Payload{UserID: "1", Role: "user"})
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	t.Helper()
	wrongMaker := NewJWTMaker("wrong_secret_key", SessionTTL)
	token, err := wrongMaker.Issue(Payload{UserID: "1", Role: "user"})
	require.NoError(t, err)
	return token
}

// createUnsignedToken подменяет заголовок на alg=none и убирает подпись.
func createUnsignedToken(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	return "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." + parts[1] + "."
}
