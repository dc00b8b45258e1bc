package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/l31-dev/Autha/pkg/requestcontext"
)

// TokenValidator checks a bearer token and returns the vanity it belongs to.
type TokenValidator interface {
	Validate(token string) (vanity string, err error)
}

// RequireAuth rejects requests without a valid bearer token and exposes the
// authenticated vanity through the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vanity, ok := bearerVanity(r, validator)
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized request",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":true,"message":"Invalid token"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithRequester(r.Context(), vanity)))
		})
	}
}

// OptionalAuth extracts the requester vanity when a valid token is present
// and leaves the request anonymous otherwise. Profile reads use this: the
// requester only widens PII disclosure, it never gates access.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if vanity, ok := bearerVanity(r, validator); ok {
				r = r.WithContext(requestcontext.WithRequester(r.Context(), vanity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerVanity(r *http.Request, validator TokenValidator) (string, bool) {
	const bearerPrefix = "Bearer "
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok || token == "" {
		return "", false
	}
	vanity, err := validator.Validate(token)
	if err != nil || vanity == "" {
		return "", false
	}
	return vanity, true
}
