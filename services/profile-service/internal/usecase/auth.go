package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/repository"
	"github.com/vasapolrittideah/devconnector-api/shared/normalize"
	"github.com/vasapolrittideah/devconnector-api/shared/security"
	"github.com/vasapolrittideah/devconnector-api/shared/validation"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (string, error)
	Login(ctx context.Context, params LoginParams) (string, error)

	// GetCurrentAccount returns the account without its password hash.
	GetCurrentAccount(ctx context.Context, userID string) (*model.Account, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// WelcomeMailer greets newly registered accounts.
type WelcomeMailer interface {
	SendWelcome(name, address string) error
}

type authUsecase struct {
	accountRepo  repository.AccountRepository
	tokens       TokenService
	validator    *validation.Validator
	mailer       WelcomeMailer
	storeTimeout time.Duration
	logger       *zerolog.Logger
}

// NewAuthUsecase creates a new AuthUsecase. mailer may be nil.
func NewAuthUsecase(
	accountRepo repository.AccountRepository,
	tokens TokenService,
	validator *validation.Validator,
	mailer WelcomeMailer,
	storeTimeout time.Duration,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		accountRepo:  accountRepo,
		tokens:       tokens,
		validator:    validator,
		mailer:       mailer,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (string, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = canonicalEmail(params.Email)
	if err := u.validator.Struct(params); err != nil {
		return "", err
	}

	if _, err := u.getAccountByEmail(ctx, params.Email); err == nil {
		return "", ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	avatar, err := gravatarURL(params.Email)
	if err != nil {
		return "", err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return "", err
	}

	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	account, err := u.accountRepo.CreateAccount(storeCtx, &model.Account{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		Avatar:       avatar,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrDuplicateEmail
		}
		return "", storeError(err)
	}

	if u.mailer != nil {
		if err := u.mailer.SendWelcome(account.Name, account.Email); err != nil {
			u.logger.Warn().Err(err).Str("user_id", account.ID.Hex()).Msg("failed to send welcome email")
		}
	}

	return u.tokens.Issue(account.ID.Hex())
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, error) {
	params.Email = canonicalEmail(params.Email)
	if err := u.validator.Struct(params); err != nil {
		return "", err
	}

	account, err := u.getAccountByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if ok, err := security.VerifyPassword(params.Password, account.PasswordHash); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	return u.tokens.Issue(account.ID.Hex())
}

func (u *authUsecase) GetCurrentAccount(ctx context.Context, userID string) (*model.Account, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	account, err := u.accountRepo.GetAccount(storeCtx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, storeError(err)
	}

	account.PasswordHash = ""

	return account, nil
}

func (u *authUsecase) getAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	account, err := u.accountRepo.GetAccountByEmail(storeCtx, email)
	if err != nil {
		return nil, storeError(err)
	}

	return account, nil
}

func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// gravatarURL returns the 200px, PG rated avatar of email with the "mystery
// person" fallback.
func gravatarURL(email string) (string, error) {
	sum := md5.Sum([]byte(email))
	raw := fmt.Sprintf("//www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))

	return normalize.HTTPSURL(raw)
}
