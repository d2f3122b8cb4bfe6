package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/config"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/repository"
	"github.com/vasapolrittideah/devconnector-api/shared/auth"
	"github.com/vasapolrittideah/devconnector-api/shared/security"
	"github.com/vasapolrittideah/devconnector-api/shared/validation"
)

// PasswordResetUsecase defines the business logic for password reset token operations.
type PasswordResetUsecase interface {
	// RequestPasswordReset mails a reset link to the account registered with
	// email. Unknown addresses succeed silently.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword redeems the reset token and replaces the account password.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ValidatePasswordResetToken checks that the token can still be redeemed.
	ValidatePasswordResetToken(ctx context.Context, token string) error
}

// PasswordResetMailer delivers reset links.
type PasswordResetMailer interface {
	SendPasswordReset(address, resetLink string, expiresIn time.Duration) error
}

var (
	ErrTokenNotFound            = fmt.Errorf("%w: password reset token", ErrNotFound)
	ErrTokenAlreadyUsed         = errors.New("password reset token has already been used")
	ErrTokenExpired             = errors.New("password reset token has expired")
	ErrInvalidToken             = errors.New("invalid password reset token")
	ErrPasswordResetUnavailable = errors.New("password reset is not available")
)

type requestPasswordResetParams struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordParams struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"min=6"`
}

type passwordResetUsecase struct {
	accountRepo repository.AccountRepository
	tokenRepo   repository.PasswordResetTokenRepository
	jwtAuth     auth.JWTAuthenticator
	mailer      PasswordResetMailer
	validator   *validation.Validator
	cfg         *config.ProfileServiceConfig
	logger      *zerolog.Logger
	now         func() time.Time
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
// jwtAuth must use an audience distinct from session tokens. Requests fail
// with ErrPasswordResetUnavailable when mailer is nil.
func NewPasswordResetUsecase(
	accountRepo repository.AccountRepository,
	tokenRepo repository.PasswordResetTokenRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer PasswordResetMailer,
	validator *validation.Validator,
	cfg *config.ProfileServiceConfig,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		jwtAuth:     jwtAuth,
		mailer:      mailer,
		validator:   validator,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	if u.mailer == nil {
		return ErrPasswordResetUnavailable
	}

	params := requestPasswordResetParams{Email: canonicalEmail(email)}
	if err := u.validator.Struct(params); err != nil {
		return err
	}

	storeCtx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	account, err := u.accountRepo.GetAccountByEmail(storeCtx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			u.logger.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return storeError(err)
	}

	if err := u.tokenRepo.InvalidateUserTokens(storeCtx, account.ID); err != nil {
		return storeError(err)
	}

	tokenStr, jti, expiresAt, err := u.generatePasswordResetToken(account.ID.Hex())
	if err != nil {
		return err
	}

	if _, err := u.tokenRepo.CreateToken(storeCtx, &model.PasswordResetToken{
		UserID:    account.ID,
		JTI:       jti,
		ExpiresAt: expiresAt,
	}); err != nil {
		return storeError(err)
	}

	resetLink := fmt.Sprintf("%s?token=%s", u.cfg.PasswordResetURL, tokenStr)
	if err := u.mailer.SendPasswordReset(account.Email, resetLink, u.cfg.Token.PasswordResetExpiresIn); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	u.logger.Info().Str("user_id", account.ID.Hex()).Msg("password reset requested")

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := u.validator.Struct(resetPasswordParams{Token: token, Password: newPassword}); err != nil {
		return err
	}

	storeCtx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	resetToken, err := u.redeemableToken(storeCtx, token)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// The token is claimed before the password changes; a lost race reports
	// ErrTokenAlreadyUsed.
	if err := u.tokenRepo.MarkTokenAsUsed(storeCtx, resetToken.JTI); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenAlreadyUsed
		}
		return storeError(err)
	}

	if err := u.accountRepo.UpdatePassword(storeCtx, resetToken.UserID, passwordHash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return storeError(err)
	}

	u.logger.Info().Str("user_id", resetToken.UserID.Hex()).Msg("password reset completed")

	return nil
}

func (u *passwordResetUsecase) ValidatePasswordResetToken(ctx context.Context, token string) error {
	storeCtx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	_, err := u.redeemableToken(storeCtx, token)
	return err
}

func (u *passwordResetUsecase) redeemableToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	claims := &jwt.RegisteredClaims{}
	if _, err := u.jwtAuth.ValidateTokenWithClaims(token, u.cfg.Token.PasswordResetSecret, claims); err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}

	resetToken, err := u.tokenRepo.GetTokenByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, storeError(err)
	}

	if resetToken.Used {
		return nil, ErrTokenAlreadyUsed
	}

	if resetToken.Expired(u.now()) {
		return nil, ErrTokenExpired
	}

	return resetToken, nil
}

// generatePasswordResetToken creates a password reset JWT whose jti keys the stored token.
func (u *passwordResetUsecase) generatePasswordResetToken(userID string) (string, string, time.Time, error) {
	jti := uuid.NewString()
	now := u.now()
	expiresAt := now.Add(u.cfg.Token.PasswordResetExpiresIn)

	claims := jwt.RegisteredClaims{
		ID:        jti,
		Issuer:    u.jwtAuth.Issuer(),
		Audience:  jwt.ClaimStrings{u.jwtAuth.Audience()},
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	tokenStr, err := u.jwtAuth.GenerateToken(claims, u.cfg.Token.PasswordResetSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return tokenStr, jti, expiresAt, nil
}
