package interceptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// TokenVerifier resolves a bearer token to the subject identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type contextKey struct{}

var UserIDKey = contextKey{}

// legacyTokenHeader is accepted for clients that predate bearer tokens.
const legacyTokenHeader = "X-Auth-Token"

// NewJWTMiddleware rejects requests without a valid token with 401 and stores
// the resolved identity in the request context otherwise.
func NewJWTMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := Authenticate(r, verifier)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticate extracts the token carried by r and verifies it. Every failure
// wraps ErrUnauthenticated.
func Authenticate(r *http.Request, verifier TokenVerifier) (string, error) {
	tokenString, err := extractToken(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	userID, err := verifier.Verify(tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return userID, nil
}

// WithUserID returns a copy of ctx carrying the authenticated identity.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext returns the identity stored by the middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

var errMissingToken = errors.New("missing authorization header")

func extractToken(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("invalid authorization header format")
		}

		return strings.TrimSpace(parts[1]), nil
	}

	if token := strings.TrimSpace(r.Header.Get(legacyTokenHeader)); token != "" {
		return token, nil
	}

	return "", errMissingToken
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	msg := "Token is not valid"
	if errors.Is(err, errMissingToken) {
		msg = "No token, authorization denied"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
