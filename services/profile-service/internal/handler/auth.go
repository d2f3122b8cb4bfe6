package handler

import (
	"net/http"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/payload"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/usecase"
)

func (h *profileHTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	token, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.TokenResponse{Token: token}, h.logger)
}

func (h *profileHTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.TokenResponse{Token: token}, h.logger)
}

func (h *profileHTTPHandler) GetCurrentAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	account, err := h.authUsecase.GetCurrentAccount(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.NewAccountResponse(account), h.logger)
}
