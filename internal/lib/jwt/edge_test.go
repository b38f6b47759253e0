package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeVerifier_AcceptsIssuedTokens(t *testing.T) {
	maker := NewJWTMaker(testSecret, SessionTTL)
	edge := NewEdgeVerifier(testSecret)

	token, err := maker.Issue(Payload{UserID: "42", Email: "admin@rent.uz", Role: "admin"})
	require.NoError(t, err)

	fromEdge, err := edge.Verify(token)
	require.NoError(t, err)
	fromMaker, err := maker.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, fromMaker.UserID, fromEdge.UserID)
	assert.Equal(t, fromMaker.Email, fromEdge.Email)
	assert.Equal(t, fromMaker.Role, fromEdge.Role)
	assert.True(t, fromMaker.ExpiresAt.Equal(fromEdge.ExpiresAt))
	assert.True(t, fromMaker.IssuedAt.Equal(fromEdge.IssuedAt))
}

func TestEdgeVerifier_AgreesWithMaker(t *testing.T) {
	maker := NewJWTMaker(testSecret, SessionTTL)
	edge := NewEdgeVerifier(testSecret)

	valid, err := maker.Issue(Payload{UserID: "1", Email: "u@rent.uz", Role: "user"})
	require.NoError(t, err)

	tokens := map[string]string{
		"valid":        valid,
		"empty":        "",
		"garbage":      "not-a-token",
		"two parts":    "a.b",
		"malformed":    "invalid.token.here",
		"expired":      createExpiredToken(t, testSecret),
		"wrong secret": createTokenWithWrongSecret(t),
		"tampered":     valid + "x",
		"alg none":     createUnsignedToken(t, valid),
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			_, makerErr := maker.Verify(token)
			_, edgeErr := edge.Verify(token)
			assert.Equal(t, makerErr == nil, edgeErr == nil)
			if edgeErr != nil {
				assert.ErrorIs(t, edgeErr, ErrInvalidToken)
			}
		})
	}
}

func TestEdgeVerifier_ExpiresAtBoundary(t *testing.T) {
	maker := NewJWTMaker(testSecret, SessionTTL)
	edge := NewEdgeVerifier(testSecret)

	token, err := maker.Issue(Payload{UserID: "1", Role: "user"})
	require.NoError(t, err)
	claims, err := edge.Verify(token)
	require.NoError(t, err)

	edge.now = func() time.Time { return claims.ExpiresAt.Add(-time.Second) }
	_, err = edge.Verify(token)
	assert.NoError(t, err)

	edge.now = func() time.Time { return claims.ExpiresAt }
	_, err = edge.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	edge.now = func() time.Time { return claims.IssuedAt.Add(8 * 24 * time.Hour) }
	_, err = edge.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEdgeVerifier_SecretMissing(t *testing.T) {
	edge := NewEdgeVerifier("")
	_, err := edge.Verify("a.b.c")
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestLoadSecret(t *testing.T) {
	secret, err := LoadSecret("  s3cr3t ")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cr3t"), secret)

	_, err = LoadSecret("")
	assert.ErrorIs(t, err, ErrSecretMissing)
}
