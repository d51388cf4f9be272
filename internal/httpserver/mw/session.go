package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/bundlepitch/internal/auth"
	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

// Verifier turns a bearer token into a session.
type Verifier interface {
	Verify(token string) (*domain.Session, error)
}

// RequireSession rejects requests without a valid bearer token (401) and
// attaches the verified session to the request context otherwise.
func RequireSession(v Verifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			s, err := v.Verify(token)
			if err != nil {
				log.Debug("session rejected", logger.String("path", r.URL.Path), logger.Error(err))
				respond.Error(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithSession(r.Context(), s)))
		})
	}
}

// OptionalSession attaches the session when a valid bearer token is sent.
// Missing or invalid tokens are ignored.
func OptionalSession(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := auth.BearerToken(r); token != "" {
				if s, err := v.Verify(token); err == nil {
					r = r.WithContext(domain.WithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
