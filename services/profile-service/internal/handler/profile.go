package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/payload"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/usecase"
)

func (h *profileHTTPHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.profileUsecase.GetOwnProfile(r.Context(), id)
	h.writeProfile(w, r, profile, err)
}

func (h *profileHTTPHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	var req payload.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	profile, err := h.profileUsecase.UpsertProfile(r.Context(), id, usecase.UpsertProfileParams{
		Department:     req.Department,
		Location:       req.Location,
		Status:         req.Status,
		Bio:            req.Bio,
		GitHubUsername: req.GitHubUsername,
		YouTube:        req.YouTube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		LinkedIn:       req.LinkedIn,
		Instagram:      req.Instagram,
	})
	h.writeProfile(w, r, profile, err)
}

func (h *profileHTTPHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileUsecase.ListProfiles(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.NewProfileListResponse(profiles), h.logger)
}

func (h *profileHTTPHandler) GetProfileByOwner(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileUsecase.GetProfileByOwner(r.Context(), chi.URLParam(r, "user_id"))
	h.writeProfile(w, r, profile, err)
}

func (h *profileHTTPHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.profileUsecase.DeleteOwnAccountCascade(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.MessageResponse{Msg: "User deleted"}, h.logger)
}

func (h *profileHTTPHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	var req payload.ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	profile, err := h.profileUsecase.AddExperience(r.Context(), id, usecase.ExperienceParams{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From.Ptr(),
		To:          req.To.Ptr(),
		Current:     req.Current,
		Description: req.Description,
	})
	h.writeProfile(w, r, profile, err)
}

func (h *profileHTTPHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.profileUsecase.RemoveExperience(r.Context(), id, chi.URLParam(r, "exp_id"))
	h.writeProfile(w, r, profile, err)
}

func (h *profileHTTPHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	var req payload.EducationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	profile, err := h.profileUsecase.AddEducation(r.Context(), id, usecase.EducationParams{
		Institution:  req.Institution,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From.Ptr(),
		To:           req.To.Ptr(),
		Current:      req.Current,
		Description:  req.Description,
	})
	h.writeProfile(w, r, profile, err)
}

func (h *profileHTTPHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.profileUsecase.RemoveEducation(r.Context(), id, chi.URLParam(r, "edu_id"))
	h.writeProfile(w, r, profile, err)
}

func (h *profileHTTPHandler) ListGitHubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.profileUsecase.ListExternalRepos(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, repos, h.logger)
}

func (h *profileHTTPHandler) writeProfile(w http.ResponseWriter, r *http.Request, profile *model.Profile, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.NewProfileResponse(profile), h.logger)
}
