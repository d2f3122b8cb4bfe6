package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/usecase"
	"github.com/vasapolrittideah/devconnector-api/shared/interceptor"
	"github.com/vasapolrittideah/devconnector-api/shared/validation"
)

type errorResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, code int, payload any, logger *zerolog.Logger) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal response")
		http.Error(w, `{"errors":[{"msg":"something went wrong"}]}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logger.Warn().Err(err).Msg("failed to write response")
	}
}

func writeMessage(w http.ResponseWriter, code int, msg string, logger *zerolog.Logger) {
	writeJSON(w, code, errorResponse{Errors: []validation.FieldError{{Message: msg}}}, logger)
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *profileHTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Errors: verr.Fields}, h.logger)
	case errors.Is(err, usecase.ErrDuplicateEmail):
		writeMessage(w, http.StatusBadRequest, "User already exists", h.logger)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, "Invalid Credentials", h.logger)
	case errors.Is(err, usecase.ErrInvalidIdentity):
		writeMessage(w, http.StatusBadRequest, "Invalid identifier", h.logger)
	case errors.Is(err, interceptor.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Token is not valid", h.logger)
	case errors.Is(err, usecase.ErrTokenNotFound):
		writeMessage(w, http.StatusNotFound, "password reset token not found", h.logger)
	case errors.Is(err, usecase.ErrTokenAlreadyUsed):
		writeMessage(w, http.StatusBadRequest, "password reset token has already been used", h.logger)
	case errors.Is(err, usecase.ErrTokenExpired):
		writeMessage(w, http.StatusUnauthorized, "password reset token has expired", h.logger)
	case errors.Is(err, usecase.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, "invalid password reset token", h.logger)
	case errors.Is(err, usecase.ErrPasswordResetUnavailable):
		writeMessage(w, http.StatusServiceUnavailable, "password reset is not available", h.logger)
	case errors.Is(err, usecase.ErrProfileNotFound):
		writeMessage(w, http.StatusNotFound, "There is no profile for this user", h.logger)
	case errors.Is(err, usecase.ErrAccountNotFound):
		writeMessage(w, http.StatusNotFound, "User not found", h.logger)
	case errors.Is(err, usecase.ErrReposNotFound):
		writeMessage(w, http.StatusNotFound, "No Github profile found", h.logger)
	case errors.Is(err, usecase.ErrTimeout):
		h.logger.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("request timed out")
		writeMessage(w, http.StatusGatewayTimeout, "request timed out", h.logger)
	default:
		h.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "something went wrong", h.logger)
	}
}
