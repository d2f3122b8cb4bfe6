package payload

import (
	"time"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type AccountResponse struct {
	ID     string    `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func NewAccountResponse(account *model.Account) AccountResponse {
	return AccountResponse{
		ID:     account.ID.Hex(),
		Name:   account.Name,
		Email:  account.Email,
		Avatar: account.Avatar,
		Date:   account.CreatedAt,
	}
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}
