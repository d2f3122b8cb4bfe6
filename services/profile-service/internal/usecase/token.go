package usecase

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/config"
	"github.com/vasapolrittideah/devconnector-api/shared/auth"
)

// TokenService issues and verifies session tokens bound to an account identity.
type TokenService interface {
	Issue(userID string) (string, error)

	// Verify returns the identity the token was issued for. It fails with
	// auth.ErrInvalidToken or auth.ErrExpiredToken.
	Verify(token string) (string, error)
}

type tokenService struct {
	jwtAuth   auth.JWTAuthenticator
	secret    string
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(jwtAuth auth.JWTAuthenticator, cfg config.TokenConfig) TokenService {
	return &tokenService{
		jwtAuth:   jwtAuth,
		secret:    cfg.Secret,
		expiresIn: cfg.ExpiresIn,
		now:       time.Now,
	}
}

func (s *tokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		Issuer:    s.jwtAuth.Issuer(),
		Audience:  jwt.ClaimStrings{s.jwtAuth.Audience()},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
	}

	return s.jwtAuth.GenerateToken(claims, s.secret)
}

func (s *tokenService) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, err := s.jwtAuth.ValidateTokenWithClaims(token, s.secret, claims); err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", auth.ErrInvalidToken
	}

	return claims.Subject, nil
}
