package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
	"github.com/MrSnakeDoc/bundlepitch/internal/store/supabase"
)

const maxAuthBody = 4 << 10

type magicLinkRequest struct {
	Email string `json:"email"`
}

type magicLinkResponse struct {
	Sent bool `json:"sent"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MagicLink asks the identity provider to email a sign-in link that lands on
// the app page of the frontend.
func MagicLink(d deps.Deps) http.HandlerFunc {
	redirectTo := d.FrontendURL + "/app"

	return func(w http.ResponseWriter, r *http.Request) {
		var req magicLinkRequest
		if err := respond.Decode(w, r, maxAuthBody, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		email := strings.TrimSpace(req.Email)
		if !validEmail(email) {
			respond.Error(w, http.StatusBadRequest, "A valid email address is required")
			return
		}

		if err := d.Auth.SendMagicLink(r.Context(), email, redirectTo); err != nil {
			var apiErr *supabase.APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests {
				respond.Error(w, http.StatusTooManyRequests, "Too many sign-in emails, please wait a moment")
				return
			}
			d.Logger.Error("failed to send magic link", logger.Error(err))
			respond.Error(w, http.StatusBadGateway, "Could not send the sign-in link")
			return
		}

		respond.JSON(w, http.StatusAccepted, magicLinkResponse{Sent: true})
	}
}

// RefreshSession exchanges a refresh token for a new token pair.
func RefreshSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := respond.Decode(w, r, maxAuthBody, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.RefreshToken) == "" {
			respond.Error(w, http.StatusBadRequest, "refresh_token is required")
			return
		}

		tokens, err := d.Auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, supabase.ErrUnauthorized) {
				respond.Error(w, http.StatusUnauthorized, "Session expired, please sign in again")
				return
			}
			d.Logger.Error("failed to refresh session", logger.Error(err))
			respond.Error(w, http.StatusBadGateway, "Could not refresh the session")
			return
		}

		respond.JSON(w, http.StatusOK, tokens)
	}
}

// Session echoes the verified session of the caller.
func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := domain.SessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		respond.JSON(w, http.StatusOK, sess)
	}
}

// validEmail accepts bare addresses only ("a@b.c", not "Name <a@b.c>").
func validEmail(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndexByte(s, '@'):], ".")
}
