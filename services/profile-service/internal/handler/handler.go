package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/usecase"
	"github.com/vasapolrittideah/devconnector-api/shared/interceptor"
)

type profileHTTPHandler struct {
	authUsecase          usecase.AuthUsecase
	profileUsecase       usecase.ProfileUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	logger               *zerolog.Logger
}

// NewProfileHTTPHandler builds the router serving the account and profile API.
// Routes that act on the caller's own data require a token accepted by verifier.
func NewProfileHTTPHandler(
	authUsecase usecase.AuthUsecase,
	profileUsecase usecase.ProfileUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	verifier interceptor.TokenVerifier,
	logger *zerolog.Logger,
) http.Handler {
	h := &profileHTTPHandler{
		authUsecase:          authUsecase,
		profileUsecase:       profileUsecase,
		passwordResetUsecase: passwordResetUsecase,
		logger:               logger,
	}
	requireAuth := interceptor.NewJWTMiddleware(verifier)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequest)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.Register)
		r.Post("/auth", h.Login)
		r.With(requireAuth).Get("/auth", h.GetCurrentAccount)

		r.Post("/auth/password-reset", h.RequestPasswordReset)
		r.Get("/auth/password-reset", h.ValidatePasswordResetToken)
		r.Post("/auth/password-reset/confirm", h.ResetPassword)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.ListProfiles)
			r.Get("/user/{user_id}", h.GetProfileByOwner)
			r.Get("/github/{username}", h.ListGitHubRepos)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				r.Get("/me", h.GetOwnProfile)
				r.Post("/", h.UpsertProfile)
				r.Delete("/", h.DeleteAccount)
				r.Put("/experience", h.AddExperience)
				r.Delete("/experience/{exp_id}", h.RemoveExperience)
				r.Put("/education", h.AddEducation)
				r.Delete("/education/{edu_id}", h.RemoveEducation)
			})
		})
	})

	return r
}

func (h *profileHTTPHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

func (h *profileHTTPHandler) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// userID returns the identity stored by the auth middleware.
func userID(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger) (string, bool) {
	id, ok := interceptor.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token, authorization denied", logger)
	}

	return id, ok
}
