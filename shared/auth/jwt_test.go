package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClaims(a *JWTAuthenticator, subject string, expiresIn time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    a.Issuer(),
		Audience:  jwt.ClaimStrings{a.Audience()},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}
}

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	a := NewJWTAuthenticator("devconnector", "devconnector")
	tok, err := a.GenerateToken(newClaims(&a, "user-1", time.Hour), "secret")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = a.ValidateTokenWithClaims(tok, "secret", claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	a := NewJWTAuthenticator("devconnector", "devconnector")
	tok, err := a.GenerateToken(newClaims(&a, "user-1", -time.Minute), "secret")
	require.NoError(t, err)

	_, err = a.ValidateTokenWithClaims(tok, "secret", &jwt.RegisteredClaims{})
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	a := NewJWTAuthenticator("devconnector", "devconnector")
	tok, err := a.GenerateToken(newClaims(&a, "user-1", time.Hour), "right")
	require.NoError(t, err)

	_, err = a.ValidateTokenWithClaims(tok, "wrong", &jwt.RegisteredClaims{})
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_WrongAudience(t *testing.T) {
	t.Parallel()

	issuerA := NewJWTAuthenticator("other", "devconnector")
	tok, err := issuerA.GenerateToken(newClaims(&issuerA, "user-1", time.Hour), "secret")
	require.NoError(t, err)

	b := NewJWTAuthenticator("devconnector", "devconnector")
	_, err = b.ValidateTokenWithClaims(tok, "secret", &jwt.RegisteredClaims{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	a := NewJWTAuthenticator("devconnector", "devconnector")
	_, err := a.ValidateTokenWithClaims("not.a.jwt", "secret", &jwt.RegisteredClaims{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
